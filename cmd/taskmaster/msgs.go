package main

import (
	"github.com/benjamonnguyen/taskmaster"
)

type TasksLoadedMsg struct{}

type TaskSavedMsg struct {
	verb string
	task taskmaster.Task
}

type TaskDeletedMsg struct {
	id int64
}

type StatsMsg struct {
	stats taskmaster.Stats
}

// ErrorMsg ends the program when fatal is set.
type ErrorMsg struct {
	err   error
	fatal bool
}
