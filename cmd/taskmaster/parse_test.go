package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/benjamonnguyen/taskmaster"
	"github.com/benjamonnguyen/taskmaster/charmlog"
	"github.com/benjamonnguyen/taskmaster/query"
	"github.com/benjamonnguyen/taskmaster/sqlite"
	"github.com/benjamonnguyen/taskmaster/tasklist"
)

func TestParseTaskInput(t *testing.T) {
	tests := []struct {
		input   string
		want    taskmaster.NewTask
		wantErr bool
	}{
		{
			input: "Buy milk",
			want:  taskmaster.NewTask{Text: "Buy milk"},
		},
		{
			input: "Write report !high @work #q1 #finance due:2030-01-01",
			want: taskmaster.NewTask{
				Text:     "Write report",
				Priority: taskmaster.PriorityHigh,
				Category: taskmaster.CategoryWork,
				Tags:     []string{"q1", "finance"},
				DueDate:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			input: "#home Fix ! the sink #home @Other",
			want: taskmaster.NewTask{
				Text:     "Fix ! the sink",
				Category: taskmaster.CategoryOther,
				Tags:     []string{"home"},
			},
		},
		{input: "Call mom !urgent", wantErr: true},
		{input: "Call mom @family", wantErr: true},
		{input: "Call mom due:tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseTaskInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTaskInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Text != tt.want.Text || got.Priority != tt.want.Priority || got.Category != tt.want.Category {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if !slices.Equal(got.Tags, tt.want.Tags) {
				t.Errorf("expected tags %v, got %v", tt.want.Tags, got.Tags)
			}
			if !got.DueDate.Equal(tt.want.DueDate) {
				t.Errorf("expected due date %v, got %v", tt.want.DueDate, got.DueDate)
			}
		})
	}
}

func TestParseFilters(t *testing.T) {
	if by, order, err := parseSort("priority asc"); err != nil || by != query.SortByPriority || order != query.Asc {
		t.Errorf("parseSort() = %q, %q, %v", by, order, err)
	}
	if _, order, err := parseSort("dueDate"); err != nil || order != query.Desc {
		t.Errorf("expected default order desc, got %q, %v", order, err)
	}
	if _, _, err := parseSort(""); err == nil {
		t.Error("expected error for empty sort")
	}
	if c, err := parseCategoryFilter(""); err != nil || c != query.All {
		t.Errorf("parseCategoryFilter() = %q, %v", c, err)
	}
	if p, err := parsePriorityFilter("LOW"); err != nil || p != taskmaster.PriorityLow {
		t.Errorf("parsePriorityFilter() = %q, %v", p, err)
	}
	if _, err := parseStatusFilter("done"); err == nil {
		t.Error("expected error for unknown status")
	}
	if id, err := parseID(" #12 "); err != nil || id != 12 {
		t.Errorf("parseID() = %d, %v", id, err)
	}
	if _, err := parseID("-1"); err == nil {
		t.Error("expected error for negative id")
	}
}

func setupSession(t *testing.T) *tasklist.Session {
	t.Helper()

	logger := charmlog.Discard()
	store := taskmaster.NewStore(sqlite.Opener(filepath.Join(t.TempDir(), "taskmaster.db"), logger), logger)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return tasklist.New(store, logger)
}

func TestParseProgramArgs(t *testing.T) {
	ctx := context.Background()
	session := setupSession(t)

	run := func(t *testing.T, args ...string) (options, string) {
		t.Helper()
		var out bytes.Buffer
		opts, err := parseProgramArgs(ctx, session, args, time.DateOnly, &out)
		if err != nil {
			t.Fatalf("parseProgramArgs(%v) error = %v", args, err)
		}
		return opts, out.String()
	}

	t.Run("no args starts the ui", func(t *testing.T) {
		opts, out := run(t)
		if opts.shouldExit || opts.showHelp || out != "" {
			t.Errorf("expected interactive mode, got %+v %q", opts, out)
		}
	})

	t.Run("add", func(t *testing.T) {
		opts, out := run(t, "/a", "Buy", "milk", "@shopping", "#dairy")
		if !opts.shouldExit {
			t.Error("expected one-shot command to exit")
		}
		if !strings.Contains(out, "Buy milk") {
			t.Errorf("expected added task in output, got %q", out)
		}
		run(t, "/a", "Write", "report", "!high", "@work")
	})

	t.Run("list with search", func(t *testing.T) {
		_, out := run(t, "/ls", "dairy")
		if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Write report") {
			t.Errorf("expected only the matching task, got %q", out)
		}
	})

	t.Run("toggle", func(t *testing.T) {
		tasks := session.Tasks()
		_, out := run(t, "/d", "1")
		if !strings.Contains(out, "[x]") {
			t.Errorf("expected completed task, got %q", out)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
	})

	t.Run("stats", func(t *testing.T) {
		_, out := run(t, "/stats")
		if !strings.Contains(out, "Total 2") || !strings.Contains(out, "Completed 1 (50%)") {
			t.Errorf("unexpected stats output %q", out)
		}
	})

	t.Run("delete", func(t *testing.T) {
		_, out := run(t, "/x", "2")
		if !strings.Contains(out, "Deleted task 2") {
			t.Errorf("unexpected output %q", out)
		}
		_, out = run(t, "/ls")
		if strings.Contains(out, "Write report") {
			t.Errorf("expected deleted task to be gone, got %q", out)
		}
	})

	t.Run("unknown command shows help", func(t *testing.T) {
		opts, _ := run(t, "/nope")
		if !opts.showHelp {
			t.Error("expected help")
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		var out bytes.Buffer
		if _, err := parseProgramArgs(ctx, session, []string{"/a", "!high"}, time.DateOnly, &out); err == nil {
			t.Error("expected validation error for empty text")
		}
		if _, err := parseProgramArgs(ctx, session, []string{"/d", "999"}, time.DateOnly, &out); !errors.Is(err, taskmaster.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
