package board

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/shopdesk/internal/domain"
)

// Colors defines the board palette.
var Colors = struct {
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Todo       lipgloss.Color
	InProgress lipgloss.Color
	Completed  lipgloss.Color
	Cancelled  lipgloss.Color
	Selected   lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Todo:       lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Completed:  lipgloss.Color("#00B894"), // Green
	Cancelled:  lipgloss.Color("#636E72"), // Gray
	Selected:   lipgloss.Color("#FFEAA7"), // Pale yellow
}

// Styles contains the lipgloss styles for the board.
type Styles struct {
	Header       lipgloss.Style
	Column       lipgloss.Style
	ColumnActive lipgloss.Style
	ColumnTitle  lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardMeta     lipgloss.Style
	Error        lipgloss.Style
	Notice       lipgloss.Style
}

// DefaultStyles returns the default board styles.
func DefaultStyles() Styles {
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Colors.Muted).
		Padding(0, 1)

	return Styles{
		Header:       lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary).MarginBottom(1),
		Column:       column,
		ColumnActive: column.BorderForeground(Colors.Primary),
		ColumnTitle:  lipgloss.NewStyle().Bold(true),
		Card:         lipgloss.NewStyle(),
		CardSelected: lipgloss.NewStyle().Bold(true).Foreground(Colors.Selected),
		CardMeta:     lipgloss.NewStyle().Foreground(Colors.Muted),
		Error:        lipgloss.NewStyle().Foreground(Colors.Error),
		Notice:       lipgloss.NewStyle().Foreground(Colors.Muted),
	}
}

// StatusColor returns the accent color of a status column.
func StatusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusTodo:
		return Colors.Todo
	case domain.StatusInProgress:
		return Colors.InProgress
	case domain.StatusCompleted:
		return Colors.Completed
	default:
		return Colors.Cancelled
	}
}
