package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/benjamonnguyen/taskmaster"
)

func newTestTask(text string, category taskmaster.Category, priority taskmaster.Priority) taskmaster.Task {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return taskmaster.Task{
		Text:      text,
		Category:  category,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskRepo_InsertTask(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t).TaskRepo()

	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	task := newTestTask("Write report", taskmaster.CategoryWork, taskmaster.PriorityHigh)
	task.Description = "quarterly numbers"
	task.DueDate = due
	task.Tags = []string{"finance", "q1"}

	inserted, err := repo.InsertTask(ctx, task)
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}
	if inserted.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	all, err := repo.GetAllTasks(ctx)
	if err != nil {
		t.Fatalf("GetAllTasks() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 task, got %d", len(all))
	}

	got := all[0]
	if got.ID != inserted.ID {
		t.Errorf("expected id %d, got %d", inserted.ID, got.ID)
	}
	if got.Text != task.Text || got.Description != task.Description {
		t.Errorf("expected text %q/%q, got %q/%q", task.Text, task.Description, got.Text, got.Description)
	}
	if got.Priority != task.Priority || got.Category != task.Category || got.Completed {
		t.Errorf("unexpected enum fields: %+v", got)
	}
	if !got.DueDate.Equal(due) {
		t.Errorf("expected due date %v, got %v", due, got.DueDate)
	}
	if !slices.Equal(got.Tags, task.Tags) {
		t.Errorf("expected tags %v, got %v", task.Tags, got.Tags)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) || !got.UpdatedAt.Equal(task.UpdatedAt) {
		t.Errorf("expected timestamps %v/%v, got %v/%v", task.CreatedAt, task.UpdatedAt, got.CreatedAt, got.UpdatedAt)
	}

	t.Run("does not coalesce identical tasks", func(t *testing.T) {
		second, err := repo.InsertTask(ctx, task)
		if err != nil {
			t.Fatalf("InsertTask() error = %v", err)
		}
		if second.ID == inserted.ID {
			t.Errorf("expected a new id, got %d again", second.ID)
		}
	})

	t.Run("rejects preset id", func(t *testing.T) {
		withID := task
		withID.ID = 42
		if _, err := repo.InsertTask(ctx, withID); err == nil {
			t.Error("expected error inserting a task with an id, got nil")
		}
	})
}

func TestTaskRepo_GetTask(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t).TaskRepo()

	inserted, err := repo.InsertTask(ctx, newTestTask("Find me", taskmaster.CategoryOther, taskmaster.PriorityLow))
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.GetTask(ctx, inserted.ID)
		if err != nil {
			t.Fatalf("GetTask() error = %v", err)
		}
		if found.Text != "Find me" {
			t.Errorf("expected text %q, got %q", "Find me", found.Text)
		}
		if found.Tags == nil || len(found.Tags) != 0 {
			t.Errorf("expected empty tags, got %#v", found.Tags)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.GetTask(ctx, inserted.ID+100)
		if !errors.Is(err, taskmaster.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskRepo_UpdateTask(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t).TaskRepo()

	original, err := repo.InsertTask(ctx, newTestTask("Original", taskmaster.CategoryWork, taskmaster.PriorityMedium))
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}

	t.Run("update existing task", func(t *testing.T) {
		changed := original
		changed.Text = "Changed"
		changed.Completed = !original.Completed
		changed.Tags = []string{"done"}
		changed.CreatedAt = original.CreatedAt.Add(-48 * time.Hour)
		changed.UpdatedAt = original.UpdatedAt.Add(time.Second)

		updated, err := repo.UpdateTask(ctx, changed)
		if err != nil {
			t.Fatalf("UpdateTask() error = %v", err)
		}

		found, err := repo.GetTask(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetTask() error = %v", err)
		}
		if found.ID != original.ID {
			t.Errorf("expected id %d, got %d", original.ID, found.ID)
		}
		if found.Completed == original.Completed {
			t.Error("expected completed to flip")
		}
		if found.Text != "Changed" || !slices.Equal(found.Tags, []string{"done"}) {
			t.Errorf("expected updated fields, got %+v", found)
		}
		if !found.CreatedAt.Equal(original.CreatedAt) {
			t.Errorf("expected stored created_at %v to be kept, got %v", original.CreatedAt, found.CreatedAt)
		}
		if found.UpdatedAt.Before(original.UpdatedAt) {
			t.Errorf("expected updated_at >= %v, got %v", original.UpdatedAt, found.UpdatedAt)
		}
		if !updated.CreatedAt.Equal(found.CreatedAt) || !updated.UpdatedAt.Equal(found.UpdatedAt) {
			t.Errorf("returned task %+v differs from stored %+v", updated, found)
		}
	})

	t.Run("update non-existent task", func(t *testing.T) {
		missing := original
		missing.ID = original.ID + 100

		_, err := repo.UpdateTask(ctx, missing)
		if !errors.Is(err, taskmaster.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		all, err := repo.GetAllTasks(ctx)
		if err != nil {
			t.Fatalf("GetAllTasks() error = %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected update of a missing id not to insert, got %d tasks", len(all))
		}
	})
}

func TestTaskRepo_DeleteTask(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t).TaskRepo()

	task, err := repo.InsertTask(ctx, newTestTask("To be deleted", taskmaster.CategoryHealth, taskmaster.PriorityLow))
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("DeleteTask() call %d error = %v", i+1, err)
		}
		if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, taskmaster.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	}

	t.Run("ids are not reused", func(t *testing.T) {
		next, err := repo.InsertTask(ctx, newTestTask("Next", taskmaster.CategoryHealth, taskmaster.PriorityLow))
		if err != nil {
			t.Fatalf("InsertTask() error = %v", err)
		}
		if next.ID <= task.ID {
			t.Errorf("expected id greater than %d, got %d", task.ID, next.ID)
		}
	})
}

func TestTaskRepo_IndexedLookups(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t).TaskRepo()

	seed := []struct {
		text      string
		category  taskmaster.Category
		priority  taskmaster.Priority
		completed bool
		due       time.Time
	}{
		{"a", taskmaster.CategoryWork, taskmaster.PriorityHigh, false, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"b", taskmaster.CategoryWork, taskmaster.PriorityLow, true, time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"c", taskmaster.CategoryShopping, taskmaster.PriorityHigh, false, time.Time{}},
		{"d", taskmaster.CategoryHealth, taskmaster.PriorityMedium, true, time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, s := range seed {
		task := newTestTask(s.text, s.category, s.priority)
		task.Completed = s.completed
		task.DueDate = s.due
		if _, err := repo.InsertTask(ctx, task); err != nil {
			t.Fatalf("InsertTask(%s) error = %v", s.text, err)
		}
	}

	texts := func(tasks []taskmaster.Task) []string {
		var res []string
		for _, task := range tasks {
			res = append(res, task.Text)
		}
		return res
	}

	tests := []struct {
		name string
		get  func() ([]taskmaster.Task, error)
		want []string
	}{
		{"by category", func() ([]taskmaster.Task, error) { return repo.GetByCategory(ctx, taskmaster.CategoryWork) }, []string{"a", "b"}},
		{"by empty category", func() ([]taskmaster.Task, error) { return repo.GetByCategory(ctx, taskmaster.CategoryEducation) }, nil},
		{"by priority", func() ([]taskmaster.Task, error) { return repo.GetByPriority(ctx, taskmaster.PriorityHigh) }, []string{"a", "c"}},
		{"completed", func() ([]taskmaster.Task, error) { return repo.GetByCompletion(ctx, true) }, []string{"b", "d"}},
		{"pending", func() ([]taskmaster.Task, error) { return repo.GetByCompletion(ctx, false) }, []string{"a", "c"}},
		{"due between", func() ([]taskmaster.Task, error) {
			return repo.GetByDueDate(ctx, time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC))
		}, []string{"b", "d"}},
		{"due after", func() ([]taskmaster.Task, error) {
			return repo.GetByDueDate(ctx, time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC), time.Time{})
		}, []string{"b", "d"}},
		{"due before", func() ([]taskmaster.Task, error) {
			return repo.GetByDueDate(ctx, time.Time{}, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		}, []string{"a"}},
		{"no due date", func() ([]taskmaster.Task, error) { return repo.GetByDueDate(ctx, time.Time{}, time.Time{}) }, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			if err != nil {
				t.Fatalf("lookup error = %v", err)
			}
			if got == nil {
				t.Fatal("expected a non-nil slice")
			}
			if !slices.Equal(texts(got), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, texts(got))
			}
		})
	}
}
