package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamonnguyen/taskmaster"
	"github.com/benjamonnguyen/taskmaster/query"
	"github.com/benjamonnguyen/taskmaster/tasklist"
)

const logo = `
	████████╗ █████╗ ███████╗██╗  ██╗███╗   ███╗ █████╗ ███████╗████████╗███████╗██████╗
	╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝████╗ ████║██╔══██╗██╔════╝╚══██╔══╝██╔════╝██╔══██╗
	   ██║   ███████║███████╗█████╔╝ ██╔████╔██║███████║███████╗   ██║   █████╗  ██████╔╝
	   ██║   ██╔══██║╚════██║██╔═██╗ ██║╚██╔╝██║██╔══██║╚════██║   ██║   ██╔══╝  ██╔══██╗
	   ██║   ██║  ██║███████║██║  ██╗██║ ╚═╝ ██║██║  ██║███████║   ██║   ███████╗██║  ██║
	   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝`

const programUsage = `Usage:
  taskmaster: start interactive mode
  taskmaster /a <task>: add task
  taskmaster /ls [search]: list tasks
  taskmaster /stats: show statistics
  taskmaster /d <id>: toggle task completion
  taskmaster /x <id>: delete task

Task input: <text> [!high|!medium|!low] [@category] [#tag ...] [due:YYYY-MM-DD]`

const commandHelp = `COMMANDS:
  <task>: add a task
  /a <task>: add a task
  /d <id>: toggle completion
  /e <id> <task>: replace the text of a task; given !priority, @category, #tags and due: also replace
  /x <id>: delete a task

  /s [search]: search text, description and tags; if no search provided, clear it
  /c [category|all]: filter by category
  /p [priority|all]: filter by priority
  /st [all|completed|pending|overdue]: filter by status
  /sort <created|updated|dueDate|priority|alphabetical> [asc|desc]: sort tasks
  /r: reset filters

  /stats: toggle statistics
  /q: quit
`

type model struct {
	// children
	vp        viewport.Model
	userinput textinput.Model

	// supplied
	l       taskmaster.Logger
	session *tasklist.Session
	clock   func() time.Time

	// state
	stats     *taskmaster.Stats
	showStats bool
	alerts    []string
	quitting  bool
	h         int

	// configuration
	cmdTimeout time.Duration
	dateFormat string
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadTasks, textinput.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd, cmd tea.Cmd

	m, cmd = m.updateParent(msg)

	// update children

	m.userinput, tiCmd = m.userinput.Update(msg)

	switch msg.(type) {
	case tea.KeyMsg:
		// vp updates on KeyMsg cause the view to flicker
	default:
		m.vp, vpCmd = m.vp.Update(msg)
	}

	return m, tea.Batch(tiCmd, vpCmd, cmd)
}

func (m model) updateParent(msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		m.l.Error("command failed", "error", msg.err)
		m.addAlert(msg.err.Error(), colorRed)
		if msg.fatal {
			m.quitting = true
			return m, tea.Quit
		}
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		m.h = msg.Height
		m.userinput.Width = msg.Width
		m.vp.Width = msg.Width
		m.refresh()
		return m, nil
	case TasksLoadedMsg:
		m.refresh()
		return m, m.fetchStats
	case TaskSavedMsg:
		m.addAlert(fmt.Sprintf("%s task %d", msg.verb, msg.task.ID), colorCyan)
		m.refresh()
		return m, m.fetchStats
	case TaskDeletedMsg:
		m.addAlert(fmt.Sprintf("deleted task %d", msg.id), colorCyan)
		m.refresh()
		return m, m.fetchStats
	case StatsMsg:
		m.stats = &msg.stats
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			input := strings.TrimSpace(m.userinput.Value())
			m.userinput.Reset()
			if input == "" {
				return m, nil
			}

			var cmd tea.Cmd
			m.alerts = nil
			m, cmd = m.handleInput(input)
			m.refresh()
			return m, cmd
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	return lipgloss.JoinVertical(0, m.vp.View(), m.renderFooter())
}

func (m model) loadTasks() tea.Msg {
	timeout, cancel := m.newTimeout()
	defer cancel()

	if err := m.session.Load(timeout); err != nil {
		return ErrorMsg{
			err:   err,
			fatal: true,
		}
	}
	return TasksLoadedMsg{}
}

func (m model) fetchStats() tea.Msg {
	timeout, cancel := m.newTimeout()
	defer cancel()

	stats, err := m.session.Stats(timeout)
	if err != nil {
		return ErrorMsg{
			err: err,
		}
	}
	return StatsMsg{
		stats: stats,
	}
}

func (m model) newTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cmdTimeout)
}

func (m *model) addAlert(alert string, color string) {
	m.alerts = append(m.alerts, colorize(color, alert))
}

func (m *model) refresh() {
	m.vp.SetContent(m.renderVisibleTasks())
	tasksHeight := lipgloss.Height(m.renderVisibleTasks())
	footerHeight := lipgloss.Height(m.renderFooter())
	m.vp.Height = max(0, min(tasksHeight, m.h-footerHeight))
	m.vp.GotoTop()
}

func (m model) renderVisibleTasks() string {
	tasks := m.session.View()
	var sb strings.Builder
	if spec := m.session.Filter(); spec.IsActive() {
		sb.WriteString(faintStyle.Render(spec.String()))
		sb.WriteRune('\n')
	}
	if len(tasks) == 0 {
		sb.WriteString(faintStyle.Render("no tasks"))
		return sb.String()
	}
	sb.WriteString(renderTasks(tasks, m.clock(), m.dateFormat))
	return sb.String()
}

func (m model) renderFooter() string {
	if m.quitting {
		return strings.Join(m.alerts, "\n")
	}

	var footer strings.Builder
	if m.vp.Width > 0 {
		footer.WriteString(faintStyle.Render(line(m.vp.Width)))
	}
	footer.WriteRune('\n')
	footer.WriteString(m.userinput.View())
	footer.WriteString("\n\n")

	showQuit := true
	if len(m.alerts) > 0 {
		footer.WriteString(strings.Join(m.alerts, "\n"))
		footer.WriteString("\n\n")
		showQuit = false
	}

	if m.showStats && m.stats != nil {
		footer.WriteString(renderStats(*m.stats))
		footer.WriteString("\n\n")
	}

	if showQuit {
		footer.WriteString(faintStyle.Render("(ctrl+c to quit)"))
		footer.WriteRune('\n')
	}

	return footer.String()
}

func (m model) handleInput(input string) (model, tea.Cmd) {
	if !strings.HasPrefix(input, "/") {
		return m.addTask(input)
	}

	parts := strings.SplitN(input, " ", 2)
	var arg string
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}

	switch parts[0] {
	case "/a":
		if arg == "" {
			m.addAlert("usage: /a <task>", colorYellow)
			return m, nil
		}
		return m.addTask(arg)
	case "/d":
		id, err := parseID(arg)
		if err != nil {
			m.addAlert("usage: /d <id>", colorYellow)
			return m, nil
		}
		return m, func() tea.Msg {
			timeout, c := m.newTimeout()
			defer c()
			t, err := m.session.Toggle(timeout, id)
			if err != nil {
				return ErrorMsg{
					err: err,
				}
			}
			verb := "reopened"
			if t.Completed {
				verb = "completed"
			}
			return TaskSavedMsg{
				verb: verb,
				task: t,
			}
		}
	case "/e":
		return m.editTask(arg)
	case "/x":
		id, err := parseID(arg)
		if err != nil {
			m.addAlert("usage: /x <id>", colorYellow)
			return m, nil
		}
		return m, func() tea.Msg {
			timeout, c := m.newTimeout()
			defer c()
			if err := m.session.Delete(timeout, id); err != nil {
				return ErrorMsg{
					err: err,
				}
			}
			return TaskDeletedMsg{
				id: id,
			}
		}
	case "/s":
		spec := m.session.Filter()
		spec.Search = arg
		m.session.SetFilter(spec)
		return m, nil
	case "/c":
		c, err := parseCategoryFilter(arg)
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		spec := m.session.Filter()
		spec.Category = c
		m.session.SetFilter(spec)
		return m, nil
	case "/p":
		p, err := parsePriorityFilter(arg)
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		spec := m.session.Filter()
		spec.Priority = p
		m.session.SetFilter(spec)
		return m, nil
	case "/st":
		st, err := parseStatusFilter(arg)
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		spec := m.session.Filter()
		spec.Status = st
		m.session.SetFilter(spec)
		return m, nil
	case "/sort":
		by, order, err := parseSort(arg)
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		spec := m.session.Filter()
		spec.SortBy, spec.SortOrder = by, order
		m.session.SetFilter(spec)
		return m, nil
	case "/r":
		m.session.SetFilter(query.DefaultFilterSpec())
		return m, nil
	case "/stats":
		m.showStats = !m.showStats
		return m, m.fetchStats
	case "/h":
		m.addAlert(commandHelp, colorYellow)
		return m, nil
	case "/q":
		m.quitting = true
		return m, tea.Quit
	}

	m.addAlert(fmt.Sprintf("unknown command %s, enter /h for help", parts[0]), colorRed)
	return m, nil
}

func (m model) addTask(input string) (model, tea.Cmd) {
	n, err := parseTaskInput(input)
	if err != nil {
		m.addAlert(err.Error(), colorRed)
		return m, nil
	}
	return m, func() tea.Msg {
		timeout, c := m.newTimeout()
		defer c()
		t, err := m.session.Add(timeout, n)
		if err != nil {
			return ErrorMsg{
				err: err,
			}
		}
		return TaskSavedMsg{
			verb: "added",
			task: t,
		}
	}
}

func (m model) editTask(arg string) (model, tea.Cmd) {
	idArg, input, _ := strings.Cut(arg, " ")
	id, err := parseID(idArg)
	if err != nil || strings.TrimSpace(input) == "" {
		m.addAlert("usage: /e <id> <task>", colorYellow)
		return m, nil
	}

	var existing *taskmaster.Task
	for _, t := range m.session.Tasks() {
		if t.ID == id {
			existing = &t
			break
		}
	}
	if existing == nil {
		m.addAlert(fmt.Sprintf("no task %d", id), colorRed)
		return m, nil
	}

	n, err := parseTaskInput(input)
	if err != nil {
		m.addAlert(err.Error(), colorRed)
		return m, nil
	}
	n.Description = existing.Description
	n.Completed = existing.Completed
	if n.Priority == "" {
		n.Priority = existing.Priority
	}
	if n.Category == "" {
		n.Category = existing.Category
	}
	if n.DueDate.IsZero() {
		n.DueDate = existing.DueDate
	}
	if len(n.Tags) == 0 {
		n.Tags = existing.Tags
	}
	n = n.Normalize()
	if err := n.Validate(); err != nil {
		m.addAlert(err.Error(), colorRed)
		return m, nil
	}

	edited := n.Task()
	edited.ID = existing.ID
	edited.CreatedAt = existing.CreatedAt

	return m, func() tea.Msg {
		timeout, c := m.newTimeout()
		defer c()
		t, err := m.session.Update(timeout, edited)
		if err != nil {
			return ErrorMsg{
				err: err,
			}
		}
		return TaskSavedMsg{
			verb: "edited",
			task: t,
		}
	}
}
