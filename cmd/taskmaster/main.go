package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamonnguyen/taskmaster"
	"github.com/benjamonnguyen/taskmaster/charmlog"
	"github.com/benjamonnguyen/taskmaster/query"
	"github.com/benjamonnguyen/taskmaster/sqlite"
	"github.com/benjamonnguyen/taskmaster/tasklist"
)

const cmdTimeout = 3 * time.Second

func main() {
	// conf
	conf, err := taskmaster.LoadConfig(taskmaster.DefaultConfFile())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := os.MkdirAll(path.Dir(conf.LogPath), 0o744); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	f, err := os.OpenFile(conf.LogPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close() //nolint:errcheck
	logger := charmlog.NewLogger(charmlog.Options{
		Writer: f,
		Level:  conf.LogLevel,
	})
	logger.Info("loaded config", "config", conf)

	// store
	if err := os.MkdirAll(path.Dir(conf.DatabaseURL), 0o744); err != nil {
		logger.Error("failed to create database dir", "error", err)
	}
	store := taskmaster.NewStore(sqlite.Opener(conf.DatabaseURL, logger), logger)
	defer store.Close() //nolint:errcheck
	session := tasklist.New(store, logger)

	// handle initial args
	timeout, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	opts, err := parseProgramArgs(timeout, session, os.Args[1:], conf.DateFormat, os.Stdout)
	if err != nil {
		fmt.Println(colorize(colorRed, err.Error()))
		os.Exit(1)
	}
	if opts.showHelp {
		fmt.Println(colorize(colorYellow, programUsage))
		return
	}
	if opts.shouldExit {
		return
	}

	// start program
	fmt.Println(colorize(colorYellow, logo))
	fmt.Printf("\nEnter \"/h\" for help\n\n")

	userinput := textinput.New()
	userinput.Focus()
	userinput.CharLimit = 280
	userinput.Placeholder = "task !priority @category #tag due:YYYY-MM-DD"
	userinput.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))

	m := model{
		l:          logger,
		session:    session,
		clock:      time.Now,
		cmdTimeout: cmdTimeout,
		dateFormat: conf.DateFormat,
		userinput:  userinput,
		vp:         viewport.New(0, 0),
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		logger.Error(err.Error())
	}
}

type options struct {
	showHelp   bool
	shouldExit bool
}

// parseProgramArgs runs a one-shot command, writing its result to w.
// No args means the interactive UI should start.
func parseProgramArgs(ctx context.Context, session *tasklist.Session, args []string, dateFormat string, w io.Writer) (options, error) {
	var opts options
	if len(args) == 0 {
		return opts, nil
	}

	cmd := args[0]
	arg := strings.Join(args[1:], " ")
	opts.shouldExit = true

	switch cmd {
	case "/a":
		n, err := parseTaskInput(arg)
		if err != nil {
			return options{}, err
		}
		t, err := session.Add(ctx, n)
		if err != nil {
			return options{}, err
		}
		fmt.Fprintf(w, "Added %s\n", renderTask(t, time.Now(), dateFormat))
	case "/ls":
		if err := session.Load(ctx); err != nil {
			return options{}, err
		}
		spec := query.DefaultFilterSpec()
		spec.Search = arg
		session.SetFilter(spec)
		tasks := session.View()
		if len(tasks) == 0 {
			fmt.Fprintln(w, "No tasks")
			return opts, nil
		}
		fmt.Fprintln(w, renderTasks(tasks, time.Now(), dateFormat))
	case "/stats":
		stats, err := session.Stats(ctx)
		if err != nil {
			return options{}, err
		}
		fmt.Fprintln(w, renderStats(stats))
	case "/d":
		id, err := parseID(arg)
		if err != nil {
			return options{}, err
		}
		t, err := session.Toggle(ctx, id)
		if err != nil {
			return options{}, err
		}
		fmt.Fprintln(w, renderTask(t, time.Now(), dateFormat))
	case "/x":
		id, err := parseID(arg)
		if err != nil {
			return options{}, err
		}
		if err := session.Delete(ctx, id); err != nil {
			return options{}, err
		}
		fmt.Fprintf(w, "Deleted task %d\n", id)
	default:
		opts.showHelp = true
	}
	return opts, nil
}
