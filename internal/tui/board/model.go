// Package board provides a terminal task board with one column per task
// status. Tasks are moved between columns through the MoveTask use case.
package board

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// Model is the bubbletea model for the board.
type Model struct {
	// Dependencies
	container *app.Container
	orderID   *string // Only tasks of this order (nil = all orders)
	err       error

	// State
	columns [][]*domain.Task // One slice per status, in domain.AllStatuses order
	rows    []int            // Cursor row per column
	notice  string

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model

	// Numeric state
	statuses []domain.Status
	col      int
	width    int
	height   int
}

// New creates a new board Model. orderID limits the board to one order.
func New(c *app.Container, orderID *string) *Model {
	statuses := domain.AllStatuses()
	return &Model{
		container: c,
		orderID:   orderID,
		columns:   make([][]*domain.Task, len(statuses)),
		rows:      make([]int, len(statuses)),
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		statuses:  statuses,
	}
}

// Run starts the board program and blocks until the user quits.
func Run(c *app.Container, orderID *string) error {
	_, err := tea.NewProgram(New(c, orderID), tea.WithAltScreen()).Run()
	return err
}

// Init loads the tasks.
func (m *Model) Init() tea.Cmd {
	return m.loadTasks()
}

func (m *Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ListTasksUseCase().Execute(context.Background(), usecase.ListTasksInput{
			OrderID:         m.orderID,
			IncludeTerminal: true,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Tasks: out.Tasks}
	}
}

func (m *Model) moveTask(taskID string, status domain.Status) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.MoveTaskUseCase().Execute(context.Background(), usecase.MoveTaskInput{
			TaskID: taskID,
			Status: status,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskMoved{Task: out.Task, From: out.From}
	}
}

// SelectedTask returns the task under the cursor, or nil if the column is empty.
func (m *Model) SelectedTask() *domain.Task {
	tasks := m.columns[m.col]
	if len(tasks) == 0 {
		return nil
	}
	return tasks[m.rows[m.col]]
}

// setTasks distributes tasks over the status columns and clamps cursors.
func (m *Model) setTasks(tasks []*domain.Task) {
	for i := range m.columns {
		m.columns[i] = nil
	}
	for _, t := range tasks {
		for i, s := range m.statuses {
			if t.Status == s {
				m.columns[i] = append(m.columns[i], t)
				break
			}
		}
	}
	for i := range m.rows {
		if n := len(m.columns[i]); m.rows[i] >= n {
			m.rows[i] = max(n-1, 0)
		}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case MsgTasksLoaded:
		m.err = nil
		m.setTasks(msg.Tasks)
		return m, nil

	case MsgTaskMoved:
		m.err = nil
		m.notice = msg.Task.Title + ": " + msg.From.Display() + " → " + msg.Task.Status.Display()
		return m, m.loadTasks()

	case MsgError:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(m.statuses)-1 {
			m.col++
		}
	case key.Matches(msg, m.keys.Up):
		if m.rows[m.col] > 0 {
			m.rows[m.col]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.rows[m.col] < len(m.columns[m.col])-1 {
			m.rows[m.col]++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()
	case key.Matches(msg, m.keys.Advance):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		next, ok := task.Status.Next()
		if !ok {
			m.err = errors.New(task.Status.Display() + " is final")
			return m, nil
		}
		return m, m.moveTask(task.ID, next)
	case key.Matches(msg, m.keys.Cancel):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		return m, m.moveTask(task.ID, domain.StatusCancelled)
	}
	return m, nil
}
