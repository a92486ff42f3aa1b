package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type ModalType int

const (
	ModalNone ModalType = iota
	ModalLookup
	ModalPanic
	ModalTheme
)

// ModalState is an overlay that takes every message while it is open.
// Update returns a nil state once the modal has closed.
type ModalState interface {
	Type() ModalType
	Update(msg tea.Msg) (ModalState, tea.Cmd)
	View(theme Theme) string
}

type panicConfirmedMsg struct{}

type themeChosenMsg struct {
	Name string
}

// PanicConfirmState asks before the panic button is sent.
type PanicConfirmState struct {
	Callsign string
}

func (s *PanicConfirmState) Type() ModalType { return ModalPanic }

func (s *PanicConfirmState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch key.String() {
	case "y", "enter":
		return nil, func() tea.Msg { return panicConfirmedMsg{} }
	case "n", "esc", "q":
		return nil, nil
	}
	return s, nil
}

func (s *PanicConfirmState) View(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Alert.Render("Panic Button"))
	b.WriteString("\n\n")
	b.WriteString("Send panic alert for " + s.Callsign + "?\n\n")
	b.WriteString(theme.Dim.Render("[y] send  [n] cancel"))
	return theme.Modal.Render(b.String())
}

// ThemeState picks the console theme.
type ThemeState struct {
	Names  []string
	Cursor int
}

func newThemeState(current string) *ThemeState {
	s := &ThemeState{Names: ThemeNames()}
	for i, name := range s.Names {
		if name == current {
			s.Cursor = i
		}
	}
	return s
}

func (s *ThemeState) Type() ModalType { return ModalTheme }

func (s *ThemeState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(s.Names) == 0 {
		return s, nil
	}
	switch key.String() {
	case "up", "k":
		s.Cursor = (s.Cursor - 1 + len(s.Names)) % len(s.Names)
	case "down", "j":
		s.Cursor = (s.Cursor + 1) % len(s.Names)
	case "enter":
		name := s.Names[s.Cursor]
		return nil, func() tea.Msg { return themeChosenMsg{Name: name} }
	case "esc", "q":
		return nil, nil
	}
	return s, nil
}

func (s *ThemeState) View(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Header.Render("Theme"))
	b.WriteString("\n\n")
	for i, name := range s.Names {
		line := "  " + Themes[name].Name
		if i == s.Cursor {
			line = theme.Focused.Render("> " + Themes[name].Name)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + theme.Dim.Render("[enter] apply  [esc] cancel"))
	return theme.Modal.Render(b.String())
}
