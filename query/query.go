// Package query filters and sorts an in-memory task collection.
package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/benjamonnguyen/taskmaster"
)

// All disables the category, priority or status filter.
const All = "all"

type Status string

const (
	StatusAll       Status = All
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
)

var Statuses = []Status{StatusAll, StatusCompleted, StatusPending, StatusOverdue}

type SortBy string

const (
	SortByCreated      SortBy = "created"
	SortByUpdated      SortBy = "updated"
	SortByDueDate      SortBy = "dueDate"
	SortByPriority     SortBy = "priority"
	SortByAlphabetical SortBy = "alphabetical"
)

var SortBys = []SortBy{SortByCreated, SortByUpdated, SortByDueDate, SortByPriority, SortByAlphabetical}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type FilterSpec struct {
	Search    string
	Category  taskmaster.Category
	Priority  taskmaster.Priority
	Status    Status
	SortBy    SortBy
	SortOrder SortOrder
}

// DefaultFilterSpec shows everything, newest first.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		Category:  All,
		Priority:  All,
		Status:    StatusAll,
		SortBy:    SortByCreated,
		SortOrder: Desc,
	}
}

// IsActive reports whether spec differs from DefaultFilterSpec.
func (spec FilterSpec) IsActive() bool {
	def := DefaultFilterSpec()
	return strings.TrimSpace(spec.Search) != "" ||
		!isAll(string(spec.Category)) ||
		!isAll(string(spec.Priority)) ||
		!isAll(string(spec.Status)) ||
		spec.SortBy != def.SortBy ||
		spec.SortOrder != def.SortOrder
}

func (spec FilterSpec) String() string {
	return fmt.Sprintf("search=%q category=%s priority=%s status=%s sort=%s %s",
		spec.Search, spec.Category, spec.Priority, spec.Status, spec.SortBy, spec.SortOrder)
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func ParseSortBy(s string) (SortBy, error) {
	for _, by := range SortBys {
		if strings.EqualFold(strings.TrimSpace(s), string(by)) {
			return by, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Apply returns the tasks matching spec, sorted. tasks is not modified.
func Apply(tasks []taskmaster.Task, spec FilterSpec, now time.Time) []taskmaster.Task {
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(spec.Search))

	res := make([]taskmaster.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !matchesSearch(t, search, fold) {
			continue
		}
		if !isAll(string(spec.Category)) && t.Category != spec.Category {
			continue
		}
		if !isAll(string(spec.Priority)) && t.Priority != spec.Priority {
			continue
		}
		if !matchesStatus(t, spec.Status, now) {
			continue
		}
		res = append(res, t)
	}

	slices.SortStableFunc(res, comparator(spec.SortBy, spec.SortOrder))
	return res
}

func matchesSearch(t taskmaster.Task, search string, fold cases.Caser) bool {
	if strings.Contains(fold.String(t.Text), search) || strings.Contains(fold.String(t.Description), search) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(fold.String(tag), search) {
			return true
		}
	}
	return false
}

func matchesStatus(t taskmaster.Task, status Status, now time.Time) bool {
	switch status {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	case StatusOverdue:
		return t.IsOverdue(now)
	}
	return true
}

func comparator(by SortBy, order SortOrder) func(a, b taskmaster.Task) int {
	sign := 1
	if order == Desc {
		sign = -1
	}

	switch by {
	case SortByAlphabetical:
		return func(a, b taskmaster.Task) int {
			return sign * strings.Compare(a.Text, b.Text)
		}
	case SortByPriority:
		return func(a, b taskmaster.Task) int {
			return sign * (a.Priority.Rank() - b.Priority.Rank())
		}
	case SortByDueDate:
		return func(a, b taskmaster.Task) int {
			// tasks without a due date go last in either order
			switch {
			case !a.HasDueDate() && !b.HasDueDate():
				return 0
			case !a.HasDueDate():
				return 1
			case !b.HasDueDate():
				return -1
			}
			return sign * a.DueDate.Compare(b.DueDate)
		}
	case SortByUpdated:
		return func(a, b taskmaster.Task) int {
			return sign * a.UpdatedAt.Compare(b.UpdatedAt)
		}
	}
	return func(a, b taskmaster.Task) int {
		return sign * a.CreatedAt.Compare(b.CreatedAt)
	}
}
