package taskmaster

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type Database interface {
	Close() error
	Migrate(context.Context) (MigrationReport, error)
}

type IndexStatus int

const (
	_ IndexStatus = iota
	IndexCreated
	IndexExists
	IndexFailed
)

func (s IndexStatus) String() string {
	switch s {
	case IndexCreated:
		return "created"
	case IndexExists:
		return "exists"
	case IndexFailed:
		return "failed"
	}
	return "unknown"
}

type IndexResult struct {
	Name   string
	Status IndexStatus
	Err    error
}

// MigrationReport describes the outcome of a schema migration. Index
// failures are recorded here instead of failing the migration.
type MigrationReport struct {
	SchemaVersion int
	Indexes       []IndexResult
}

func (r MigrationReport) Failed() []IndexResult {
	var failed []IndexResult
	for _, idx := range r.Indexes {
		if idx.Status == IndexFailed {
			failed = append(failed, idx)
		}
	}
	return failed
}

// Err aggregates every failed index into one error, nil if none failed.
func (r MigrationReport) Err() error {
	var result *multierror.Error
	for _, idx := range r.Failed() {
		result = multierror.Append(result, fmt.Errorf("index %s: %w", idx.Name, idx.Err))
	}
	return result.ErrorOrNil()
}
