package taskmaster

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID          int64
	Text        string
	Description string
	Completed   bool
	Priority    Priority
	Category    Category
	DueDate     time.Time
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DueSoonWindow is how far ahead of now a due date counts as "due soon".
const DueSoonWindow = 24 * time.Hour

func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// IsOverdue reports whether t has a due date strictly before now and is not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.HasDueDate() && !t.Completed && t.DueDate.Before(now)
}

// IsDueSoon reports whether t is due within DueSoonWindow of now, is not
// completed and is not already overdue.
func (t Task) IsDueSoon(now time.Time) bool {
	if !t.HasDueDate() || t.Completed || t.IsOverdue(now) {
		return false
	}
	return !t.DueDate.After(now.Add(DueSoonWindow))
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities: high=3, medium=2, low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryShopping  Category = "shopping"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	CategoryOther     Category = "other"
)

var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// ParseDueDate accepts a calendar date (2006-01-02, read as UTC midnight) or
// an RFC 3339 timestamp. An empty string yields the zero time.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return d, nil
}

// AppendTag appends tag to tags unless it is blank or already present.
func AppendTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags
	}
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
