package tui

import (
	"sort"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/typeahead"
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name           string
	Base           lipgloss.Style
	Border         lipgloss.Color
	Header         lipgloss.Style
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style
	Modal          lipgloss.Style
	Label          lipgloss.Style
	Value          lipgloss.Style
	Alert          lipgloss.Style
	Status         lipgloss.Style
	Focused        lipgloss.Style
	Dim            lipgloss.Style
	Highlight      lipgloss.Style

	// Suggestion rows.
	RowBg      lipgloss.Color
	RowFg      lipgloss.Color
	RowFocusBg lipgloss.Color
	RowFocusFg lipgloss.Color
}

func button(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(config.ButtonWidth).
		Align(lipgloss.Center)
}

var Themes = map[string]Theme{
	"default": {
		Name:           "Default",
		Base:           lipgloss.NewStyle().Margin(1, 2),
		Border:         lipgloss.Color("63"),
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Button:         button(lipgloss.Color("63")).Foreground(lipgloss.Color("252")),
		ButtonFocused:  button(lipgloss.Color("205")).Foreground(lipgloss.Color("205")).Bold(true),
		ButtonDisabled: button(lipgloss.Color("238")).Foreground(lipgloss.Color("240")),
		Modal:          lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1),
		Label:          lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(16),
		Value:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Alert:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Status:         lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Focused:        lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Dim:            lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		RowBg:          lipgloss.Color("236"),
		RowFg:          lipgloss.Color("252"),
		RowFocusBg:     lipgloss.Color("63"),
		RowFocusFg:     lipgloss.Color("231"),
	},
	"dracula": {
		Name:           "Dracula",
		Base:           lipgloss.NewStyle().Margin(1, 2),
		Border:         lipgloss.Color("62"),                                       // Purple
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("50")).Bold(true), // Cyan
		Button:         button(lipgloss.Color("62")).Foreground(lipgloss.Color("255")),
		ButtonFocused:  button(lipgloss.Color("212")).Foreground(lipgloss.Color("212")).Bold(true), // Pink
		ButtonDisabled: button(lipgloss.Color("60")).Foreground(lipgloss.Color("60")),
		Modal:          lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("50")).Padding(0, 1),
		Label:          lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Width(16), // Purple
		Value:          lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Alert:          lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // Red
		Status:         lipgloss.NewStyle().Foreground(lipgloss.Color("120")),            // Green
		Focused:        lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Dim:            lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Highlight:      lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		RowBg:          lipgloss.Color("236"),
		RowFg:          lipgloss.Color("255"),
		RowFocusBg:     lipgloss.Color("62"),
		RowFocusFg:     lipgloss.Color("255"),
	},
	"contrast": {
		Name:           "High Contrast",
		Base:           lipgloss.NewStyle().Margin(1, 2),
		Border:         lipgloss.Color("15"),
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Button:         button(lipgloss.Color("15")).Foreground(lipgloss.Color("15")),
		ButtonFocused:  button(lipgloss.Color("11")).Foreground(lipgloss.Color("11")).Bold(true),
		ButtonDisabled: button(lipgloss.Color("8")).Foreground(lipgloss.Color("8")),
		Modal:          lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1),
		Label:          lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Width(16),
		Value:          lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Alert:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Status:         lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Focused:        lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Dim:            lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Highlight:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		RowBg:          lipgloss.Color("0"),
		RowFg:          lipgloss.Color("15"),
		RowFocusBg:     lipgloss.Color("11"),
		RowFocusFg:     lipgloss.Color("0"),
	},
}

// ThemeNames lists the registered themes in a stable order.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// themeOrDefault falls back to the default theme for unknown names.
func themeOrDefault(name string) (Theme, string) {
	if t, ok := Themes[name]; ok {
		return t, name
	}
	return Themes["default"], "default"
}

// suggestionStyles derives the dropdown styles from a theme.
func (t Theme) suggestionStyles() typeahead.Styles {
	s := typeahead.DefaultStyles()
	s.Row = lipgloss.NewStyle().Background(t.RowBg).Foreground(t.RowFg)
	s.Focused = lipgloss.NewStyle().Background(t.RowFocusBg).Foreground(t.RowFocusFg).Bold(true)
	s.Overflow = lipgloss.NewStyle().Background(t.RowBg).Foreground(t.Dim.GetForeground())
	s.Spinner = t.Focused
	return s
}
