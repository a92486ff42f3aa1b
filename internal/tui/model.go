package tui

import (
	"context"
	"fmt"

	"github.com/akyairhashvil/cadlookup/internal/config"
	tea "github.com/charmbracelet/bubbletea"
)

// SessionState defines the high-level mode of the application.
type SessionState int

const (
	StateConsole SessionState = iota
	StateFailed
)

// MainModel is the root bubbletea model.
type MainModel struct {
	state   SessionState
	console ConsoleModel
	err     error
	width   int // Store window dimensions
	height  int
}

func NewMainModel(ctx context.Context, deps Deps) MainModel {
	console, err := NewConsoleModel(ctx, deps)
	if err != nil {
		return MainModel{state: StateFailed, err: err}
	}
	return MainModel{state: StateConsole, console: console}
}

func (m MainModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(config.AppName)}
	if m.state == StateConsole {
		cmds = append(cmds, m.console.Init())
	}
	return tea.Batch(cmds...)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	if m.state != StateConsole {
		return m, nil
	}
	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

func (m MainModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\nPress Ctrl+C to quit.", m.err)
	}
	return m.console.View()
}
