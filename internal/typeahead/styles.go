package typeahead

import "github.com/charmbracelet/lipgloss"

// Styles controls how the input line and the dropdown rows render.
type Styles struct {
	Row      lipgloss.Style
	Focused  lipgloss.Style
	Marker   string
	Spinner  lipgloss.Style
	Overflow lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Row:      lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")),
		Focused:  lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("231")).Bold(true),
		Marker:   ">",
		Spinner:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Overflow: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("240")),
	}
}
