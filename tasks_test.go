package taskmaster

import (
	"errors"
	"slices"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestNewTask_Normalize(t *testing.T) {
	n := NewTask{
		Text:        "  Buy milk  ",
		Description: "  ",
		Tags:        []string{"groceries", "", " groceries", "dairy"},
	}.Normalize()

	if n.Text != "Buy milk" {
		t.Errorf("expected trimmed text, got %q", n.Text)
	}
	if n.Description != "" {
		t.Errorf("expected blank description to be dropped, got %q", n.Description)
	}
	if n.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %q", n.Priority)
	}
	if n.Category != CategoryPersonal {
		t.Errorf("expected default category personal, got %q", n.Category)
	}
	if want := []string{"groceries", "dairy"}; !slices.Equal(n.Tags, want) {
		t.Errorf("expected tags %v, got %v", want, n.Tags)
	}
}

func TestNewTask_Validate(t *testing.T) {
	valid := NewTask{Text: "Call mom", Priority: PriorityHigh, Category: CategoryPersonal}

	tests := []struct {
		name      string
		mutate    func(*NewTask)
		wantField string
	}{
		{"valid", func(*NewTask) {}, ""},
		{"empty priority is allowed", func(n *NewTask) { n.Priority = "" }, ""},
		{"empty text", func(n *NewTask) { n.Text = "" }, "Text"},
		{"blank text", func(n *NewTask) { n.Text = "   " }, "Text"},
		{"unknown priority", func(n *NewTask) { n.Priority = "urgent" }, "Priority"},
		{"missing category", func(n *NewTask) { n.Category = "" }, "Category"},
		{"unknown category", func(n *NewTask) { n.Category = "misc" }, "Category"},
		{"blank tag", func(n *NewTask) { n.Tags = []string{"ok", ""} }, "Tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mutate(&n)

			err := n.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected validation.Errors, got %v", err)
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestNewTask_Task(t *testing.T) {
	n := NewTask{Text: "x", Tags: []string{"a"}}
	task := n.Task()
	task.Tags[0] = "b"
	if n.Tags[0] != "a" {
		t.Error("expected Task() to copy tags")
	}
	if task.ID != 0 || !task.CreatedAt.IsZero() {
		t.Errorf("expected unsaved task, got %+v", task)
	}
}
