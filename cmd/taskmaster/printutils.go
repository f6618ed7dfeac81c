package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/benjamonnguyen/taskmaster"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
	dash        = '─'
)

var (
	faintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(false)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dueSoonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	priorityStyles = map[taskmaster.Priority]lipgloss.Style{
		taskmaster.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		taskmaster.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		taskmaster.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func line(length int) string {
	var sb strings.Builder
	for range length {
		sb.WriteRune(dash)
	}
	return sb.String()
}

func colorize(color string, s string) string {
	return color + s + colorReset
}

// renderTask renders t on a single line, e.g.
// "[ ] 3 !high Write report @work #q1 (due Jan 02, 2 days from now)".
func renderTask(t taskmaster.Task, now time.Time, dateFormat string) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	parts := []string{
		check,
		fmt.Sprintf("%d", t.ID),
		priorityStyles[t.Priority].Render("!" + string(t.Priority)),
	}
	text := t.Text
	if t.Completed {
		text = completedStyle.Render(text)
	}
	parts = append(parts, text, faintStyle.Render("@"+string(t.Category)))
	for _, tag := range t.Tags {
		parts = append(parts, faintStyle.Render("#"+tag))
	}
	if t.HasDueDate() {
		parts = append(parts, renderDueDate(t, now, dateFormat))
	}

	return strings.Join(parts, " ")
}

func renderDueDate(t taskmaster.Task, now time.Time, dateFormat string) string {
	due := fmt.Sprintf("(due %s, %s)", t.DueDate.Format(dateFormat), humanize.RelTime(t.DueDate, now, "ago", "from now"))
	switch {
	case t.IsOverdue(now):
		return overdueStyle.Render(due)
	case t.IsDueSoon(now):
		return dueSoonStyle.Render(due)
	}
	return faintStyle.Render(due)
}

func renderTasks(tasks []taskmaster.Task, now time.Time, dateFormat string) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, renderTask(t, now, dateFormat))
	}
	return strings.Join(lines, "\n")
}

func renderStats(s taskmaster.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total %d  Completed %d (%d%%)  Pending %d  Overdue %d\n",
		s.Total, s.Completed, s.CompletionRate(), s.Pending, s.Overdue)

	sb.WriteString("Pending by priority:")
	for _, p := range taskmaster.Priorities {
		fmt.Fprintf(&sb, " %s %d", priorityStyles[p].Render(string(p)), s.PriorityStats[p])
	}

	var categories []string
	for _, c := range taskmaster.Categories {
		if n, ok := s.CategoryStats[c]; ok {
			categories = append(categories, fmt.Sprintf("%s %d", c, n))
		}
	}
	if len(categories) > 0 {
		sb.WriteString("\nPending by category: ")
		sb.WriteString(strings.Join(categories, " "))
	}
	return sb.String()
}
