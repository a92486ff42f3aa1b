package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewMode selects which console pane receives keys.
type ViewMode int

const (
	ViewButtons ViewMode = iota
	ViewRecent
)

type KeyHandler func(m ConsoleModel, key string) (ConsoleModel, tea.Cmd, bool)

type KeyBinding struct {
	Keys        []string
	Handler     KeyHandler
	Description string
	ViewModes   []ViewMode
	Priority    int
}

func (b KeyBinding) AppliesToView(mode ViewMode) bool {
	if len(b.ViewModes) == 0 {
		return true
	}
	for _, v := range b.ViewModes {
		if v == mode {
			return true
		}
	}
	return false
}

func (b KeyBinding) matches(key string) bool {
	for _, k := range b.Keys {
		if k == key {
			return true
		}
	}
	return false
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m ConsoleModel, key string) (ConsoleModel, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if b.matches(key) && b.AppliesToView(m.viewMode) {
			next, cmd, handled := b.Handler(m, key)
			if handled {
				return next, cmd, true
			}
		}
	}
	return m, nil, false
}

func (r *HandlerRegistry) GetBindingsForView(mode ViewMode) []KeyBinding {
	var out []KeyBinding
	for _, b := range r.bindings {
		if b.AppliesToView(mode) {
			out = append(out, b)
		}
	}
	return out
}

func (r *HandlerRegistry) HelpForView(mode ViewMode) string {
	bindings := r.GetBindingsForView(mode)
	seen := make(map[string]bool)
	var parts []string
	for _, b := range bindings {
		if b.Description == "" || len(b.Keys) == 0 {
			continue
		}
		if seen[b.Keys[0]] {
			continue
		}
		seen[b.Keys[0]] = true
		parts = append(parts, "["+b.Keys[0]+"]"+b.Description)
	}
	return strings.Join(parts, " | ")
}

// defaultRegistry wires the console key map.
func defaultRegistry() *HandlerRegistry {
	r := NewHandlerRegistry()
	buttons := []ViewMode{ViewButtons}
	recent := []ViewMode{ViewRecent}

	r.Register(KeyBinding{Keys: []string{"left", "h"}, Handler: moveCursor(0, -1), ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"right", "l"}, Handler: moveCursor(0, 1), ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"up", "k"}, Handler: moveCursor(-1, 0), ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"down", "j"}, Handler: moveCursor(1, 0), ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"enter", " "}, Handler: activateFocused, Description: "open", ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, Handler: activateNumbered, ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"r"}, Handler: openRecent, Description: "recent", ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"p"}, Handler: exportDetail, Description: "print sheet", ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"t"}, Handler: openThemePicker, Description: "theme", ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"x"}, Handler: clearDetail, Description: "clear", ViewModes: buttons})
	r.Register(KeyBinding{Keys: []string{"q"}, Handler: quit, Description: "quit", ViewModes: buttons})

	r.Register(KeyBinding{Keys: []string{"up", "ctrl+p"}, Handler: moveRecent(-1), ViewModes: recent, Priority: 1})
	r.Register(KeyBinding{Keys: []string{"down", "ctrl+n"}, Handler: moveRecent(1), ViewModes: recent, Priority: 1})
	r.Register(KeyBinding{Keys: []string{"enter"}, Handler: showRecent, Description: "show", ViewModes: recent, Priority: 1})
	r.Register(KeyBinding{Keys: []string{"esc"}, Handler: closeRecent, Description: "back", ViewModes: recent, Priority: 1})
	return r
}
