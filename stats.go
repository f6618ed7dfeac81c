package taskmaster

import (
	"math"
	"time"
)

// Stats is an aggregate snapshot over a task collection. The priority and
// category breakdowns count pending tasks only.
type Stats struct {
	Total         int
	Completed     int
	Pending       int
	Overdue       int
	PriorityStats map[Priority]int
	CategoryStats map[Category]int
}

func ComputeStats(tasks []Task, now time.Time) Stats {
	s := Stats{
		Total: len(tasks),
		PriorityStats: map[Priority]int{
			PriorityHigh:   0,
			PriorityMedium: 0,
			PriorityLow:    0,
		},
		CategoryStats: map[Category]int{},
	}

	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			// still listed so the category shows up with a zero count
			s.CategoryStats[t.Category] += 0
			continue
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
		if _, ok := s.PriorityStats[t.Priority]; ok {
			s.PriorityStats[t.Priority]++
		}
		s.CategoryStats[t.Category]++
	}
	s.Pending = s.Total - s.Completed

	return s
}

// CompletionRate is the rounded percentage of completed tasks, 0 when empty.
func (s Stats) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

func (s Stats) PriorityTotal() int {
	return s.PriorityStats[PriorityHigh] + s.PriorityStats[PriorityMedium] + s.PriorityStats[PriorityLow]
}
