package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/database"
	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/transport"
	"github.com/akyairhashvil/cadlookup/internal/typeahead"
	"github.com/akyairhashvil/cadlookup/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	offDutyMessage      = "Go on-duty before continuing"
	panicPendingMessage = "Panic alert is still being sent"
)

// NotifyMsg reports a backend failure to the status line.
type NotifyMsg struct {
	Err error
}

type panicResultMsg struct {
	callsign string
	err      error
}

// Deps are the collaborators of the console.
type Deps struct {
	DB        Database
	Config    *config.Config
	Transport typeahead.Transport
	// Poster is nil in offline mode.
	Poster     Poster
	ReportsDir string
	Offline    bool
}

type buttonAction int

const (
	actionLookup buttonAction = iota
	actionRecent
	actionPanic
)

type consoleButton struct {
	Title     string
	Lookup    string
	Action    buttonAction
	NeedsDuty bool
}

// ConsoleModel is the officer console: a button grid, the active unit and
// the record detail pane.
type ConsoleModel struct {
	ctx        context.Context
	db         Database
	cfg        *config.Config
	transport  typeahead.Transport
	poster     Poster
	reportsDir string
	offline    bool

	theme     Theme
	themeName string
	registry  *HandlerRegistry

	buttons  []consoleButton
	cursor   int
	viewMode ViewMode
	modal    ModalState
	recent   RecentList

	officer   *models.Unit
	detail    models.Record
	status    string
	statusErr bool

	// panicPending is set while a panic POST is in flight. The endpoint
	// toggles, so a second send would cancel the first.
	panicPending bool

	width  int
	height int
}

func NewConsoleModel(ctx context.Context, deps Deps) (ConsoleModel, error) {
	if deps.DB == nil {
		return ConsoleModel{}, errors.New("console: database is required")
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	reportsDir := deps.ReportsDir
	if reportsDir == "" {
		reportsDir = util.ReportsDir(config.AppName)
	}

	m := ConsoleModel{
		ctx:        ctx,
		db:         deps.DB,
		cfg:        cfg,
		transport:  deps.Transport,
		poster:     deps.Poster,
		reportsDir: reportsDir,
		offline:    deps.Offline,
		registry:   defaultRegistry(),
		buttons:    consoleButtons(cfg),
		recent:     NewRecentList(),
	}

	themeName := cfg.UI.Theme
	if saved, ok := m.db.GetSetting(ctx, database.SettingTheme); ok {
		themeName = saved
	}
	m.theme, m.themeName = themeOrDefault(themeName)
	m.officer = m.loadOfficer()
	return m, nil
}

func consoleButtons(cfg *config.Config) []consoleButton {
	var buttons []consoleButton
	builtin := map[string]bool{}
	for _, name := range []string{config.LookupName, config.LookupPlate, config.LookupWeapon} {
		builtin[name] = true
		if l, ok := cfg.Lookup(name); ok {
			buttons = append(buttons, consoleButton{Title: l.Title, Lookup: name, NeedsDuty: true})
		}
	}
	builtin[config.LookupUnit] = true

	var extra []string
	for name := range cfg.Lookups {
		if !builtin[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		title := util.FirstNonEmpty(cfg.Lookups[name].Title, name)
		buttons = append(buttons, consoleButton{Title: title, Lookup: name, NeedsDuty: true})
	}

	if l, ok := cfg.Lookup(config.LookupUnit); ok {
		buttons = append(buttons, consoleButton{Title: l.Title, Lookup: config.LookupUnit})
	}
	return append(buttons,
		consoleButton{Title: "Recent", Action: actionRecent},
		consoleButton{Title: "Panic Button", Action: actionPanic, NeedsDuty: true},
	)
}

// loadOfficer restores the unit selected in a previous session.
func (m ConsoleModel) loadOfficer() *models.Unit {
	id, ok := m.db.GetSetting(m.ctx, database.SettingActiveOfficer)
	if !ok || id == "" {
		return nil
	}
	rec, err := m.db.GetRecord(m.ctx, models.KindUnit, id)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			util.LogError("load active unit", err)
		}
		return nil
	}
	unit, ok := rec.(models.Unit)
	if !ok {
		return nil
	}
	return &unit
}

func (m ConsoleModel) Init() tea.Cmd {
	return nil
}

func (m ConsoleModel) Update(msg tea.Msg) (ConsoleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncOrigin()
		return m, nil
	case recordSelectedMsg:
		return m.handleRecordSelected(msg), nil
	case panicConfirmedMsg:
		return m.sendPanic()
	case panicResultMsg:
		m.panicPending = false
		if msg.err != nil {
			m.setError("Panic button failed", msg.err)
		} else {
			m.setStatus("Panic alert sent for " + msg.callsign)
		}
		return m, nil
	case themeChosenMsg:
		m.applyTheme(msg.Name)
		return m, nil
	case NotifyMsg:
		m.setError("Request failed", msg.Err)
		return m, nil
	}

	if m.modal != nil {
		if _, ok := msg.(tea.MouseMsg); ok {
			m.syncOrigin()
		}
		next, cmd := m.modal.Update(msg)
		m.modal = next
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if next, cmd, ok := m.registry.Handle(m, msg.String()); ok {
			return next, cmd
		}
		if m.viewMode == ViewRecent {
			return m.updateRecentFilter(msg)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.viewMode == ViewButtons {
			if idx := m.buttonAt(msg.X, msg.Y); idx >= 0 {
				m.cursor = idx
				next, cmd, _ := m.activate(idx)
				return next, cmd
			}
		}
	}
	return m, nil
}

func (m ConsoleModel) updateRecentFilter(msg tea.KeyMsg) (ConsoleModel, tea.Cmd) {
	before := m.recent.Input.Value()
	var cmd tea.Cmd
	m.recent.Input, cmd = m.recent.Input.Update(msg)
	if m.recent.Input.Value() != before {
		if err := m.recent.Refresh(m.ctx, m.db); err != nil {
			m.setError("Search failed", err)
		}
	}
	return m, cmd
}

// activate runs the button at idx.
func (m ConsoleModel) activate(idx int) (ConsoleModel, tea.Cmd, bool) {
	if idx < 0 || idx >= len(m.buttons) {
		return m, nil, false
	}
	b := m.buttons[idx]
	if b.NeedsDuty && !m.officer.OnDuty() {
		m.status, m.statusErr = offDutyMessage, true
		return m, nil, true
	}

	switch b.Action {
	case actionRecent:
		return openRecent(m, "")
	case actionPanic:
		if m.panicPending {
			m.status, m.statusErr = panicPendingMessage, true
			return m, nil, true
		}
		m.modal = &PanicConfirmState{Callsign: m.officer.FullCallsign()}
		return m, nil, true
	}
	return m.openLookup(b)
}

func (m ConsoleModel) openLookup(b consoleButton) (ConsoleModel, tea.Cmd, bool) {
	l, ok := m.cfg.Lookup(b.Lookup)
	if !ok {
		m.setError("Lookup unavailable", fmt.Errorf("no lookup named %q", b.Lookup))
		return m, nil, true
	}
	field, err := newLookupField(b.Lookup, l, fieldOptions{
		Transport: m.transport,
		Touch:     m.cfg.UI.Touch,
		Styles:    m.theme.suggestionStyles(),
	})
	if err != nil {
		m.setError("Lookup unavailable", err)
		return m, nil, true
	}
	modal, cmd := newLookupModal(b.Lookup, util.FirstNonEmpty(l.Title, b.Title), field)
	m.modal = modal
	m.syncOrigin()
	return m, cmd, true
}

func (m ConsoleModel) handleRecordSelected(msg recordSelectedMsg) ConsoleModel {
	if lm, ok := m.modal.(*LookupModal); ok {
		lm.field.Close()
	}
	m.modal = nil

	rec := msg.Record
	if _, err := m.db.SaveRecord(m.ctx, rec); err != nil {
		util.LogError("cache record", err)
	}
	entry := models.LookupEntry{Lookup: msg.Lookup, Query: msg.Query, RecordID: rec.SuggestionID()}
	if m.officer != nil {
		entry.OfficerID = m.officer.ID
	}
	if _, err := m.db.RecordLookup(m.ctx, entry); err != nil {
		util.LogError("record lookup", err)
	}

	if unit, ok := rec.(models.Unit); ok && msg.Lookup == config.LookupUnit {
		m.officer = &unit
		if err := m.db.SetSetting(m.ctx, database.SettingActiveOfficer, unit.ID); err != nil {
			util.LogError("save active unit", err)
		}
		if unit.OnDuty() {
			m.setStatus("Active unit: " + unit.Label())
		} else {
			m.status, m.statusErr = unit.FullCallsign()+" is off-duty. "+offDutyMessage, true
		}
		return m
	}

	m.detail = rec
	m.setStatus(fmt.Sprintf("%s: %s", kindTitle(rec.RecordKind()), rec.Label()))
	return m
}

func (m ConsoleModel) sendPanic() (ConsoleModel, tea.Cmd) {
	if !m.officer.OnDuty() {
		m.status, m.statusErr = offDutyMessage, true
		return m, nil
	}
	if m.poster == nil {
		m.status, m.statusErr = "Panic button is unavailable offline", true
		return m, nil
	}
	if m.panicPending {
		m.status, m.statusErr = panicPendingMessage, true
		return m, nil
	}
	m.panicPending = true
	ctx, poster, callsign := m.ctx, m.poster, m.officer.FullCallsign()
	body := map[string]string{"officerId": m.officer.ID}
	m.setStatus("Sending panic alert...")
	return m, func() tea.Msg {
		_, err := poster.Post(ctx, config.PanicButtonPath, body)
		return panicResultMsg{callsign: callsign, err: err}
	}
}

func (m *ConsoleModel) applyTheme(name string) {
	m.theme, m.themeName = themeOrDefault(name)
	if err := m.db.SetSetting(m.ctx, database.SettingTheme, m.themeName); err != nil {
		util.LogError("save theme", err)
	}
	m.setStatus("Theme: " + m.theme.Name)
}

func (m *ConsoleModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *ConsoleModel) setError(prefix string, err error) {
	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) && statusErr.Unauthorized() {
		m.status = fmt.Sprintf("%s: unauthorized, check %s", prefix, m.cfg.API.TokenEnv)
	} else {
		m.status = fmt.Sprintf("%s: %v", prefix, err)
	}
	m.statusErr = true
}

// syncOrigin tells the open lookup field where it sits on screen.
func (m ConsoleModel) syncOrigin() {
	lm, ok := m.modal.(*LookupModal)
	if !ok {
		return
	}
	x, y := m.bodyOrigin()
	dx, dy := lm.fieldOffset(m.theme)
	lm.field.SetOrigin(x+dx, y+dy)
}

// bodyOrigin is the top-left cell of the pane below the button grid.
func (m ConsoleModel) bodyOrigin() (int, int) {
	x := m.theme.Base.GetMarginLeft()
	y := m.theme.Base.GetMarginTop() + lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderGrid())
	return x, y
}

// buttonAt maps a screen cell to a button index, or -1.
func (m ConsoleModel) buttonAt(x, y int) int {
	gx := m.theme.Base.GetMarginLeft()
	gy := m.theme.Base.GetMarginTop() + lipgloss.Height(m.renderHeader())
	cell := m.theme.Button.Render("")
	bw, bh := lipgloss.Width(cell), lipgloss.Height(cell)
	if x < gx || y < gy || bw == 0 || bh == 0 {
		return -1
	}
	col, row := (x-gx)/bw, (y-gy)/bh
	if col >= config.ButtonColumns {
		return -1
	}
	idx := row*config.ButtonColumns + col
	if idx >= len(m.buttons) {
		return -1
	}
	return idx
}

func (m ConsoleModel) View() string {
	sections := []string{m.renderHeader(), m.renderGrid()}
	switch {
	case m.modal != nil:
		sections = append(sections, m.modal.View(m.theme))
	case m.viewMode == ViewRecent:
		sections = append(sections, m.renderRecent())
	case m.detail != nil:
		sections = append(sections, m.renderDetail())
	case !m.officer.OnDuty():
		sections = append(sections, m.theme.Dim.Render("Select a unit to go on-duty."))
	}
	sections = append(sections, "", m.renderStatus())
	if m.modal == nil {
		sections = append(sections, m.theme.Dim.Render(m.registry.HelpForView(m.viewMode)))
	}
	return m.theme.Base.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m ConsoleModel) renderHeader() string {
	mode := "online"
	if m.offline {
		mode = "offline"
	}
	title := m.theme.Header.Render(strings.ToUpper(config.AppName) + " v" + versionLabel())
	unit := m.theme.Label.UnsetWidth().Render("Active unit: ") + m.theme.Value.Render(unitName(m.officer))
	return title + "  " + unit + "  " + m.theme.Dim.Render("["+mode+"]") + "\n"
}

func (m ConsoleModel) renderGrid() string {
	onDuty := m.officer.OnDuty()
	var rows []string
	for start := 0; start < len(m.buttons); start += config.ButtonColumns {
		end := min(start+config.ButtonColumns, len(m.buttons))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			b := m.buttons[i]
			style := m.theme.Button
			switch {
			case i == m.cursor && m.viewMode == ViewButtons:
				style = m.theme.ButtonFocused
			case b.NeedsDuty && !onDuty, b.Action == actionPanic && m.panicPending:
				style = m.theme.ButtonDisabled
			}
			cells = append(cells, style.Render(fmt.Sprintf("%d %s", i+1, b.Title)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m ConsoleModel) renderDetail() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render(kindTitle(m.detail.RecordKind())+" Record") + "\n")
	for _, f := range recordFields(m.detail) {
		b.WriteString(m.theme.Label.Render(f.Label) + m.theme.Value.Render(f.Value) + "\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.theme.Border).
		Width(config.DetailWidth).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m ConsoleModel) renderRecent() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render("Recent") + "\n")
	b.WriteString(m.recent.Input.View() + "\n")
	if len(m.recent.Results) == 0 {
		b.WriteString(m.theme.Dim.Render("No cached records."))
		return b.String()
	}
	for i, r := range m.recent.Results {
		line := fmt.Sprintf("%-8s %s  %s", r.Kind, r.Label, r.LookedUpAt.Local().Format("01-02 15:04"))
		if i == m.recent.Cursor {
			b.WriteString(m.theme.Focused.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m ConsoleModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.theme.Alert.Render(m.status)
	}
	return m.theme.Status.Render(m.status)
}
