package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LookupModal hosts one typeahead search. Tab moves keyboard focus between
// the field and the Close button; leaving the field blurs the typeahead.
type LookupModal struct {
	Name       string
	Title      string
	field      lookupField
	closeFocus bool
}

func newLookupModal(name, title string, field lookupField) (*LookupModal, tea.Cmd) {
	s := &LookupModal{Name: name, Title: title, field: field}
	return s, field.Focus()
}

func (s *LookupModal) Type() ModalType { return ModalLookup }

func (s *LookupModal) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab":
			if s.closeFocus {
				s.closeFocus = false
				return s, s.field.Focus()
			}
			s.closeFocus = true
			return s, s.field.Blur()
		case "esc":
			if s.closeFocus || !s.field.Open() {
				return s.close()
			}
		case "enter", " ":
			if s.closeFocus {
				return s.close()
			}
		}
		if s.closeFocus {
			return s, nil
		}
	}
	return s, s.field.Update(msg)
}

func (s *LookupModal) close() (ModalState, tea.Cmd) {
	s.field.Close()
	return nil, nil
}

func (s *LookupModal) View(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Header.Render(s.Title))
	b.WriteString("\n")
	b.WriteString(s.field.View())
	b.WriteString("\n\n")
	closeLabel := "[ Close ]"
	if s.closeFocus {
		closeLabel = theme.Focused.Render(closeLabel)
	} else {
		closeLabel = theme.Dim.Render(closeLabel)
	}
	b.WriteString(closeLabel + "  " + theme.Dim.Render("[tab] focus  [esc] close"))
	return theme.Modal.Render(b.String())
}

// fieldOffset is the field's position inside the rendered modal, below
// the title line.
func (s *LookupModal) fieldOffset(theme Theme) (int, int) {
	x := theme.Modal.GetBorderLeftSize() + theme.Modal.GetPaddingLeft()
	y := theme.Modal.GetBorderTopSize() + theme.Modal.GetPaddingTop() + 1
	return x, y
}
