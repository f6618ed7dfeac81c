package taskmaster

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// StoreOpener opens the underlying repo. The returned closer may be nil.
type StoreOpener func(context.Context) (TaskRepo, io.Closer, error)

// Store is the task persistence API used by front ends. The repo is opened
// lazily on first use and kept for the lifetime of the Store.
type Store struct {
	open  StoreOpener
	l     Logger
	clock func() time.Time

	once    sync.Once
	repo    TaskRepo
	closer  io.Closer
	openErr error
}

type StoreOption func(*Store)

// WithStoreClock overrides the clock used for timestamps and stats.
func WithStoreClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.clock = clock
	}
}

func NewStore(open StoreOpener, logger Logger, opts ...StoreOption) *Store {
	s := &Store{
		open:  open,
		l:     logger,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) getRepo(ctx context.Context) (TaskRepo, error) {
	s.once.Do(func() {
		s.l.Debug("opening task store")
		repo, closer, err := s.open(ctx)
		if err != nil {
			s.l.Error("failed to open task store", "error", err)
			s.openErr = fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
			return
		}
		s.repo, s.closer = repo, closer
	})
	return s.repo, s.openErr
}

func (s *Store) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

func (s *Store) GetTasks(ctx context.Context) ([]Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetAllTasks(ctx)
}

func (s *Store) GetTask(ctx context.Context, id int64) (Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return Task{}, err
	}
	return repo.GetTask(ctx, id)
}

func (s *Store) GetTasksByCategory(ctx context.Context, c Category) ([]Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetByCategory(ctx, c)
}

func (s *Store) GetTasksByPriority(ctx context.Context, p Priority) ([]Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetByPriority(ctx, p)
}

func (s *Store) GetTasksByCompletion(ctx context.Context, completed bool) ([]Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetByCompletion(ctx, completed)
}

// GetTasksDueBetween returns tasks due in [min, max]. Zero bounds are open;
// both zero selects tasks with no due date.
func (s *Store) GetTasksDueBetween(ctx context.Context, min, max time.Time) ([]Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetByDueDate(ctx, min, max)
}

// AddTask stamps and persists a new task. Input is not validated here; see
// NewTask.Validate.
func (s *Store) AddTask(ctx context.Context, n NewTask) (Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return Task{}, err
	}

	t := n.Task()
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now

	inserted, err := repo.InsertTask(ctx, t)
	if err != nil {
		return Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	s.l.Info("added task", "id", inserted.ID)
	return inserted, nil
}

// UpdateTask overwrites an existing task and re-stamps UpdatedAt. The stored
// CreatedAt is kept regardless of t.CreatedAt. Unknown ids yield ErrNotFound.
func (s *Store) UpdateTask(ctx context.Context, t Task) (Task, error) {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return Task{}, err
	}

	t.UpdatedAt = s.now()
	updated, err := repo.UpdateTask(ctx, t)
	if err != nil {
		return Task{}, fmt.Errorf("failed to update task %d: %w", t.ID, err)
	}
	s.l.Info("updated task", "id", updated.ID)
	return updated, nil
}

// DeleteTask removes a task. Deleting an unknown id is not an error.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	repo, err := s.getRepo(ctx)
	if err != nil {
		return err
	}
	if err := repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	s.l.Info("deleted task", "id", id)
	return nil
}

func (s *Store) GetTaskStats(ctx context.Context) (Stats, error) {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(tasks, s.clock()), nil
}

// Close releases the underlying repo if it was opened.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
