// Package charmlog provides an implementation of taskmaster.Logger using charmbracelet/log
package charmlog

import (
	"io"
	"os"

	"github.com/benjamonnguyen/taskmaster"
	"github.com/charmbracelet/log"
)

type Options struct {
	Writer io.Writer
	Level  string
	Prefix string
}

// NewLogger falls back to stdout and info level when Writer or Level are
// unset or invalid.
func NewLogger(opts Options) taskmaster.Logger {
	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	}

	lvl, err := log.ParseLevel(opts.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() taskmaster.Logger {
	return NewLogger(Options{Writer: io.Discard, Level: "fatal"})
}
