package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benjamonnguyen/taskmaster"
	"github.com/benjamonnguyen/taskmaster/query"
)

const duePrefix = "due:"

// parseTaskInput reads "!priority", "@category", "#tag" and "due:YYYY-MM-DD"
// tokens out of input. The remaining words form the task text.
func parseTaskInput(input string) (taskmaster.NewTask, error) {
	var n taskmaster.NewTask
	var words []string
	for _, tok := range strings.Fields(input) {
		switch {
		case len(tok) > 1 && tok[0] == '!':
			p, err := taskmaster.ParsePriority(tok[1:])
			if err != nil {
				return taskmaster.NewTask{}, err
			}
			n.Priority = p
		case len(tok) > 1 && tok[0] == '@':
			c, err := taskmaster.ParseCategory(tok[1:])
			if err != nil {
				return taskmaster.NewTask{}, err
			}
			n.Category = c
		case len(tok) > 1 && tok[0] == '#':
			n.Tags = taskmaster.AppendTag(n.Tags, tok[1:])
		case strings.HasPrefix(strings.ToLower(tok), duePrefix) && len(tok) > len(duePrefix):
			d, err := taskmaster.ParseDueDate(tok[len(duePrefix):])
			if err != nil {
				return taskmaster.NewTask{}, err
			}
			n.DueDate = d
		default:
			words = append(words, tok)
		}
	}
	n.Text = strings.Join(words, " ")
	return n, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// parseSort reads "<field> [asc|desc]". The order defaults to desc.
func parseSort(arg string) (query.SortBy, query.SortOrder, error) {
	fields := strings.Fields(arg)
	if len(fields) == 0 || len(fields) > 2 {
		return "", "", fmt.Errorf("usage: /sort <field> [asc|desc]")
	}
	by, err := query.ParseSortBy(fields[0])
	if err != nil {
		return "", "", err
	}
	order := query.Desc
	if len(fields) == 2 {
		if order, err = query.ParseSortOrder(fields[1]); err != nil {
			return "", "", err
		}
	}
	return by, order, nil
}

// parseCategoryFilter accepts a category name or "all"; blank means all.
func parseCategoryFilter(arg string) (taskmaster.Category, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.EqualFold(arg, query.All) {
		return query.All, nil
	}
	return taskmaster.ParseCategory(arg)
}

func parsePriorityFilter(arg string) (taskmaster.Priority, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.EqualFold(arg, query.All) {
		return query.All, nil
	}
	return taskmaster.ParsePriority(arg)
}

func parseStatusFilter(arg string) (query.Status, error) {
	if strings.TrimSpace(arg) == "" {
		return query.StatusAll, nil
	}
	return query.ParseStatus(arg)
}
