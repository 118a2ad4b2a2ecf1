package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/shopdesk/internal/domain"
)

const minColumnWidth = 20

// View renders the board.
func (m *Model) View() string {
	var b strings.Builder

	header := "Task board"
	if m.orderID != nil {
		header += " · order " + domain.ShortID(*m.orderID)
	}
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")

	cols := make([]string, 0, len(m.statuses))
	for i := range m.statuses {
		cols = append(cols, m.renderColumn(i))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(m.styles.Notice.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) columnWidth() int {
	if m.width == 0 {
		return minColumnWidth + 8
	}
	// Border and padding take 4 cells per column.
	return max(m.width/len(m.statuses)-4, minColumnWidth)
}

func (m *Model) renderColumn(i int) string {
	status := m.statuses[i]
	width := m.columnWidth()

	title := m.styles.ColumnTitle.Foreground(StatusColor(status)).
		Render(fmt.Sprintf("%s (%d)", status.Display(), len(m.columns[i])))

	lines := []string{title}
	for row, task := range m.columns[i] {
		lines = append(lines, m.renderCard(task, i == m.col && row == m.rows[i], width))
	}

	style := m.styles.Column
	if i == m.col {
		style = m.styles.ColumnActive
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderCard(task *domain.Task, selected bool, width int) string {
	cursor := "  "
	style := m.styles.Card
	if selected {
		cursor = "> "
		style = m.styles.CardSelected
	}

	title := task.Title
	if !task.IsRoot() {
		title = "↳ " + title
	}
	if limit := width - len(cursor); len([]rune(title)) > limit && limit > 1 {
		title = string([]rune(title)[:limit-1]) + "…"
	}

	meta := domain.ShortID(task.ID)
	if task.Priority != domain.PriorityNone {
		meta += " · " + string(task.Priority)
	}
	if task.Assignee != "" {
		meta += " · @" + task.Assignee
	}
	return cursor + style.Render(title) + "\n  " + m.styles.CardMeta.Render(meta)
}
