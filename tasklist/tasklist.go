// Package tasklist keeps an in-memory task collection in step with a Store.
// The store is always written first; memory changes only after it confirms.
package tasklist

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benjamonnguyen/taskmaster"
	"github.com/benjamonnguyen/taskmaster/query"
)

// Store is the subset of taskmaster.Store a Session needs.
type Store interface {
	GetTasks(context.Context) ([]taskmaster.Task, error)
	GetTask(context.Context, int64) (taskmaster.Task, error)
	AddTask(context.Context, taskmaster.NewTask) (taskmaster.Task, error)
	UpdateTask(context.Context, taskmaster.Task) (taskmaster.Task, error)
	DeleteTask(context.Context, int64) error
	GetTaskStats(context.Context) (taskmaster.Stats, error)
}

var _ Store = (*taskmaster.Store)(nil)

type Session struct {
	store Store
	l     taskmaster.Logger
	clock func() time.Time

	mu     sync.Mutex
	tasks  []taskmaster.Task
	filter query.FilterSpec
}

type Option func(*Session)

func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

func New(store Store, logger taskmaster.Logger, opts ...Option) *Session {
	s := &Session{
		store:  store,
		l:      logger,
		clock:  time.Now,
		filter: query.DefaultFilterSpec(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the store's contents.
func (s *Session) Load(ctx context.Context) error {
	tasks, err := s.store.GetTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.l.Debug("loaded tasks", "count", len(tasks))
	return nil
}

// Add normalizes and validates n before storing it.
func (s *Session) Add(ctx context.Context, n taskmaster.NewTask) (taskmaster.Task, error) {
	n = n.Normalize()
	if err := n.Validate(); err != nil {
		return taskmaster.Task{}, err
	}

	added, err := s.store.AddTask(ctx, n)
	if err != nil {
		return taskmaster.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, added)
	return added, nil
}

func (s *Session) Update(ctx context.Context, t taskmaster.Task) (taskmaster.Task, error) {
	updated, err := s.store.UpdateTask(ctx, t)
	if err != nil {
		return taskmaster.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(updated)
	return updated, nil
}

// Toggle flips the completion state of task id.
func (s *Session) Toggle(ctx context.Context, id int64) (taskmaster.Task, error) {
	t, ok := s.find(id)
	if !ok {
		var err error
		if t, err = s.store.GetTask(ctx, id); err != nil {
			return taskmaster.Task{}, err
		}
	}
	t.Completed = !t.Completed
	return s.Update(ctx, t)
}

func (s *Session) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t taskmaster.Task) bool {
		return t.ID == id
	})
	return nil
}

func (s *Session) SetFilter(spec query.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = spec
}

func (s *Session) Filter() query.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// View returns the collection filtered and sorted by the current filter.
func (s *Session) View() []taskmaster.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.Apply(s.tasks, s.filter, s.clock())
}

// Tasks returns a copy of the unfiltered collection.
func (s *Session) Tasks() []taskmaster.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Stats are computed by the store, not from memory.
func (s *Session) Stats(ctx context.Context) (taskmaster.Stats, error) {
	return s.store.GetTaskStats(ctx)
}

func (s *Session) find(id int64) (taskmaster.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return taskmaster.Task{}, false
}

func (s *Session) replace(t taskmaster.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return
		}
	}
	s.tasks = append(s.tasks, t)
}
