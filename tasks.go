package taskmaster

import (
	"context"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type TaskRepo interface {
	GetAllTasks(context.Context) ([]Task, error)
	GetTask(context.Context, int64) (Task, error)
	GetByCategory(context.Context, Category) ([]Task, error)
	GetByPriority(context.Context, Priority) ([]Task, error)
	GetByCompletion(context.Context, bool) ([]Task, error)
	GetByDueDate(ctx context.Context, min, max time.Time) ([]Task, error)
	InsertTask(context.Context, Task) (Task, error)
	UpdateTask(context.Context, Task) (Task, error)
	DeleteTask(context.Context, int64) error
}

// NewTask is a task as submitted by a user, before the store assigns an id
// and timestamps.
type NewTask struct {
	Text        string
	Description string
	Completed   bool
	Priority    Priority
	Category    Category
	DueDate     time.Time
	Tags        []string
}

var nonBlank = regexp.MustCompile(`\S`)

// Normalize trims free text, drops blank and duplicate tags and fills in the
// entry form defaults (personal, medium).
func (n NewTask) Normalize() NewTask {
	n.Text = strings.TrimSpace(n.Text)
	n.Description = strings.TrimSpace(n.Description)
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if n.Category == "" {
		n.Category = CategoryPersonal
	}
	var tags []string
	for _, t := range n.Tags {
		tags = AppendTag(tags, t)
	}
	n.Tags = tags
	return n
}

func (n NewTask) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Text, validation.Required, validation.Match(nonBlank)),
		validation.Field(&n.Priority, validation.In(PriorityLow, PriorityMedium, PriorityHigh)),
		validation.Field(&n.Category, validation.Required, validation.In(
			CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryEducation, CategoryOther,
		)),
		validation.Field(&n.Tags, validation.Each(validation.Required)),
	)
}

// Task converts n into an unsaved Task.
func (n NewTask) Task() Task {
	return Task{
		Text:        n.Text,
		Description: n.Description,
		Completed:   n.Completed,
		Priority:    n.Priority,
		Category:    n.Category,
		DueDate:     n.DueDate,
		Tags:        append([]string(nil), n.Tags...),
	}
}
