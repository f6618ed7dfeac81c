package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Thiht/transactor"
	txStdLib "github.com/Thiht/transactor/stdlib"

	"github.com/benjamonnguyen/taskmaster"
)

const (
	SelectAll = "SELECT id, text, description, completed, priority, category, due_date, tags, created_at, updated_at FROM tasks"
)

type taskEntity struct {
	ID          int64
	Text        string
	Description sql.NullString
	Completed   bool
	Priority    string
	Category    string
	DueDate     sql.NullInt64
	Tags        string
	CreatedAt   int64
	UpdatedAt   int64
}

// taskRepo
type taskRepo struct {
	transactor transactor.Transactor
	dbGetter   txStdLib.DBGetter
	l          taskmaster.Logger
}

var _ taskmaster.TaskRepo = (*taskRepo)(nil)

func NewTaskRepo(tx transactor.Transactor, dbGetter txStdLib.DBGetter, logger taskmaster.Logger) taskmaster.TaskRepo {
	return &taskRepo{
		transactor: tx,
		dbGetter:   dbGetter,
		l:          logger,
	}
}

func (r *taskRepo) GetAllTasks(ctx context.Context) ([]taskmaster.Task, error) {
	return r.query(ctx, SelectAll+" ORDER BY id")
}

func (r *taskRepo) GetTask(ctx context.Context, id int64) (taskmaster.Task, error) {
	if id == 0 {
		return taskmaster.Task{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAll), id,
	)

	task, err := extractTask(row)
	if err != nil {
		return taskmaster.Task{}, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return task, nil
}

func (r *taskRepo) GetByCategory(ctx context.Context, category taskmaster.Category) ([]taskmaster.Task, error) {
	return r.query(ctx, SelectAll+" WHERE category=? ORDER BY id", string(category))
}

func (r *taskRepo) GetByPriority(ctx context.Context, priority taskmaster.Priority) ([]taskmaster.Task, error) {
	return r.query(ctx, SelectAll+" WHERE priority=? ORDER BY id", string(priority))
}

func (r *taskRepo) GetByCompletion(ctx context.Context, completed bool) ([]taskmaster.Task, error) {
	return r.query(ctx, SelectAll+" WHERE completed=? ORDER BY id", completed)
}

func (r *taskRepo) GetByDueDate(ctx context.Context, min, max time.Time) ([]taskmaster.Task, error) {
	query := SelectAll
	var args []any
	if !min.IsZero() && !max.IsZero() {
		query += " WHERE due_date BETWEEN ? AND ?"
		args = append(args, min.UnixMilli(), max.UnixMilli())
	} else if !min.IsZero() {
		query += " WHERE due_date >= ?"
		args = append(args, min.UnixMilli())
	} else if !max.IsZero() {
		query += " WHERE due_date <= ?"
		args = append(args, max.UnixMilli())
	} else {
		query += " WHERE due_date ISNULL"
	}
	query += " ORDER BY due_date, id"

	return r.query(ctx, query, args...)
}

func (r *taskRepo) InsertTask(ctx context.Context, task taskmaster.Task) (taskmaster.Task, error) {
	if task.ID != 0 {
		return taskmaster.Task{}, fmt.Errorf("new task must not have an id, got %d", task.ID)
	}

	e, err := mapToTaskEntity(task)
	if err != nil {
		return taskmaster.Task{}, err
	}

	query := "INSERT INTO tasks (text, description, completed, priority, category, due_date, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	args := []any{
		e.Text,
		e.Description,
		e.Completed,
		e.Priority,
		e.Category,
		e.DueDate,
		e.Tags,
		e.CreatedAt,
		e.UpdatedAt,
	}
	r.l.Debug("creating task", "query", query, "args", args)
	res, err := r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return taskmaster.Task{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return taskmaster.Task{}, err
	}
	e.ID = id

	return mapToTask(e)
}

// UpdateTask overwrites every field of an existing task except CreatedAt,
// which keeps its stored value.
func (r *taskRepo) UpdateTask(ctx context.Context, task taskmaster.Task) (taskmaster.Task, error) {
	var updated taskmaster.Task
	err := r.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := r.GetTask(ctx, task.ID)
		if err != nil {
			return err
		}

		task.CreatedAt = existing.CreatedAt
		if task.UpdatedAt.Before(existing.CreatedAt) {
			task.UpdatedAt = existing.CreatedAt
		}
		e, err := mapToTaskEntity(task)
		if err != nil {
			return err
		}

		query := "UPDATE tasks SET text = ?, description = ?, completed = ?, priority = ?, category = ?, due_date = ?, tags = ?, updated_at = ? WHERE id = ?"
		args := []any{
			e.Text,
			e.Description,
			e.Completed,
			e.Priority,
			e.Category,
			e.DueDate,
			e.Tags,
			e.UpdatedAt,
			e.ID,
		}
		r.l.Debug("updating task", "query", query, "args", args)
		if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
			return err
		}

		updated, err = mapToTask(e)
		return err
	})
	if err != nil {
		return taskmaster.Task{}, err
	}

	return updated, nil
}

// DeleteTask is a no-op for unknown ids.
func (r *taskRepo) DeleteTask(ctx context.Context, id int64) error {
	query := "DELETE FROM tasks WHERE id = ?"
	r.l.Debug("deleting task", "query", query, "id", id)
	res, err := r.dbGetter(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		r.l.Debug("task already absent", "id", id)
	}
	return nil
}

func (r *taskRepo) query(ctx context.Context, query string, args ...any) ([]taskmaster.Task, error) {
	r.l.Debug("querying tasks", "query", query, "args", args)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return extractTasks(rows)
}

func extractTasks(rows *sql.Rows) ([]taskmaster.Task, error) {
	tasks := []taskmaster.Task{}
	for rows.Next() {
		task, err := extractTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func extractTask(s scannable) (taskmaster.Task, error) {
	var e taskEntity
	if err := s.Scan(&e.ID, &e.Text, &e.Description, &e.Completed, &e.Priority, &e.Category, &e.DueDate, &e.Tags, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return taskmaster.Task{}, taskmaster.ErrNotFound
		}
		return taskmaster.Task{}, err
	}

	return mapToTask(e)
}

func mapToTaskEntity(task taskmaster.Task) (taskEntity, error) {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	encodedTags, err := json.Marshal(tags)
	if err != nil {
		return taskEntity{}, fmt.Errorf("failed to encode tags: %w", err)
	}

	e := taskEntity{
		ID:        task.ID,
		Text:      task.Text,
		Completed: task.Completed,
		Priority:  string(task.Priority),
		Category:  string(task.Category),
		Tags:      string(encodedTags),
		CreatedAt: task.CreatedAt.UnixMilli(),
		UpdatedAt: task.UpdatedAt.UnixMilli(),
	}

	if task.Description != "" {
		e.Description = sql.NullString{
			Valid:  true,
			String: task.Description,
		}
	}
	if !task.DueDate.IsZero() {
		e.DueDate = sql.NullInt64{
			Valid: true,
			Int64: task.DueDate.UnixMilli(),
		}
	}
	return e, nil
}

func mapToTask(e taskEntity) (taskmaster.Task, error) {
	var tags []string
	if err := json.Unmarshal([]byte(e.Tags), &tags); err != nil {
		return taskmaster.Task{}, fmt.Errorf("failed to decode tags of task %d: %w", e.ID, err)
	}

	var dueDate time.Time
	if e.DueDate.Valid {
		dueDate = time.UnixMilli(e.DueDate.Int64).UTC()
	}

	return taskmaster.Task{
		ID:          e.ID,
		Text:        e.Text,
		Description: e.Description.String,
		Completed:   e.Completed,
		Priority:    taskmaster.Priority(e.Priority),
		Category:    taskmaster.Category(e.Category),
		DueDate:     dueDate,
		Tags:        tags,
		CreatedAt:   time.UnixMilli(e.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(e.UpdatedAt).UTC(),
	}, nil
}
