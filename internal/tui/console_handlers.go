package tui

import (
	"time"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

func moveCursor(dRow, dCol int) KeyHandler {
	return func(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
		next := m.cursor + dRow*config.ButtonColumns + dCol
		if dCol != 0 && next/config.ButtonColumns != m.cursor/config.ButtonColumns {
			return m, nil, true
		}
		if next >= 0 && next < len(m.buttons) {
			m.cursor = next
		}
		return m, nil, true
	}
}

func activateFocused(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	return m.activate(m.cursor)
}

func activateNumbered(m ConsoleModel, key string) (ConsoleModel, tea.Cmd, bool) {
	idx := int(key[0] - '1')
	if idx < 0 || idx >= len(m.buttons) {
		return m, nil, false
	}
	m.cursor = idx
	return m.activate(idx)
}

func openRecent(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	m.viewMode = ViewRecent
	m.recent.Reset()
	cmd := m.recent.Input.Focus()
	if err := m.recent.Refresh(m.ctx, m.db); err != nil {
		m.setError("Recent records", err)
	}
	return m, cmd, true
}

func moveRecent(delta int) KeyHandler {
	return func(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
		m.recent.Move(delta)
		return m, nil, true
	}
}

func showRecent(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	sel, ok := m.recent.Selected()
	if !ok {
		return m, nil, true
	}
	rec, err := models.Decode(sel.Kind, sel.Payload)
	if err != nil {
		m.setError("Cached record", err)
		return m, nil, true
	}
	m.detail = rec
	m.viewMode = ViewButtons
	m.recent.Reset()
	m.setStatus("From cache: " + rec.Label())
	return m, nil, true
}

func closeRecent(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	m.viewMode = ViewButtons
	m.recent.Reset()
	return m, nil, true
}

func exportDetail(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	if m.detail == nil {
		m.status, m.statusErr = "Nothing to print", true
		return m, nil, true
	}
	path, err := GenerateRecordSheet(m.detail, m.officer, m.reportsDir, time.Now())
	if err != nil {
		m.setError("Print failed", err)
		return m, nil, true
	}
	m.setStatus("Record sheet saved: " + path)
	return m, nil, true
}

func openThemePicker(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	m.modal = newThemeState(m.themeName)
	return m, nil, true
}

func clearDetail(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	m.detail = nil
	m.status = ""
	return m, nil, true
}

func quit(m ConsoleModel, _ string) (ConsoleModel, tea.Cmd, bool) {
	return m, tea.Quit, true
}
