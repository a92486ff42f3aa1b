package typeahead

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the bindings used while the suggestion list is shown.
type KeyMap struct {
	Down    key.Binding
	Up      key.Binding
	Select  key.Binding
	Dismiss key.Binding
}

var DefaultKeyMap = KeyMap{
	Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
	Select:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
}
