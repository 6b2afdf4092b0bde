package view

import "github.com/charmbracelet/lipgloss"

// Theme is the palette used to draw the board.
type Theme struct {
	X        lipgloss.Color
	O        lipgloss.Color
	Empty    lipgloss.Color
	Cursor   lipgloss.Color
	Banner   lipgloss.Color
	Win      lipgloss.Color
	Error    lipgloss.Color
	Muted    lipgloss.Color
	Disabled lipgloss.Color
}

// DefaultTheme is based on the dracula palette.
func DefaultTheme() Theme {
	return Theme{
		X:        lipgloss.Color("#8BE9FD"),
		O:        lipgloss.Color("#FF79C6"),
		Empty:    lipgloss.Color("#BD93F9"),
		Cursor:   lipgloss.Color("#44475A"),
		Banner:   lipgloss.Color("#F1FA8C"),
		Win:      lipgloss.Color("#50FA7B"),
		Error:    lipgloss.Color("#FF5555"),
		Muted:    lipgloss.Color("#6272A4"),
		Disabled: lipgloss.Color("#44475A"),
	}
}
