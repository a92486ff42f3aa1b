package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/database"
	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/testutil"
	"github.com/akyairhashvil/cadlookup/internal/transport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func buttonIndex(t *testing.T, m ConsoleModel, title string) int {
	t.Helper()
	for i, b := range m.buttons {
		if b.Title == title {
			return i
		}
	}
	t.Fatalf("button %q not found", title)
	return -1
}

func TestConsoleButtonsFollowLookups(t *testing.T) {
	m := newTestConsole(t, Deps{})
	var titles []string
	for _, b := range m.buttons {
		titles = append(titles, b.Title)
	}
	want := []string{"Name Search", "Plate Search", "Weapon Search", "Select Unit", "Recent", "Panic Button"}
	if strings.Join(titles, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected buttons: %v", titles)
	}
}

func TestConsoleButtonsIncludeCustomLookups(t *testing.T) {
	cfg := config.Default()
	cfg.Lookups["calls"] = config.Lookup{Title: "Call Search", Kind: config.KindCall, Path: "/calls", Method: "POST", RequestKey: "query"}
	m := newTestConsole(t, Deps{Config: cfg})
	idx := buttonIndex(t, m, "Call Search")
	if !m.buttons[idx].NeedsDuty {
		t.Fatalf("expected custom lookup to need an on-duty unit")
	}
	if idx >= buttonIndex(t, m, "Select Unit") {
		t.Fatalf("expected custom lookup before the unit button")
	}
}

func TestSearchButtonsNeedOnDutyUnit(t *testing.T) {
	m := newTestConsole(t, Deps{})
	for _, key := range []string{"1", "2", "3", "6"} {
		next, _ := press(m, key)
		if next.modal != nil {
			t.Fatalf("button %s opened a modal without an active unit", key)
		}
		if next.status != offDutyMessage || !next.statusErr {
			t.Fatalf("button %s: expected off-duty status, got %q", key, next.status)
		}
	}
}

func TestOffDutyUnitKeepsButtonsDisabled(t *testing.T) {
	m := newTestConsole(t, Deps{})
	unit := testutil.NewUnit("u1", "1A").WithCallsign2("12").OffDuty().Build()
	m = withOfficer(t, m, unit)
	if !strings.Contains(m.status, "off-duty") {
		t.Fatalf("expected off-duty status, got %q", m.status)
	}
	m, _ = press(m, "1")
	if m.modal != nil {
		t.Fatalf("expected name search to stay disabled")
	}
}

func TestUnitButtonAlwaysEnabled(t *testing.T) {
	m := newTestConsole(t, Deps{Transport: &fakeTransport{body: "[]"}})
	m.cursor = buttonIndex(t, m, "Select Unit")
	m, cmd := press(m, "enter")
	if m.modal == nil || m.modal.Type() != ModalLookup {
		t.Fatalf("expected lookup modal, got %v", m.modal)
	}
	if cmd == nil {
		t.Fatalf("expected focus command")
	}
	lm := m.modal.(*LookupModal)
	if lm.Name != config.LookupUnit || !lm.field.Focused() {
		t.Fatalf("expected focused unit lookup, got %q", lm.Name)
	}
	if !strings.Contains(m.View(), "Select Unit") {
		t.Fatalf("expected modal title in view")
	}
}

func TestSelectingUnitSetsActiveOfficer(t *testing.T) {
	ctx := context.Background()
	db := setupModelDB(t)
	m := newTestConsole(t, Deps{DB: db})
	m = withOfficer(t, m, onDutyUnit())

	if id, ok := db.GetSetting(ctx, database.SettingActiveOfficer); !ok || id != "u1" {
		t.Fatalf("expected active officer setting u1, got %q", id)
	}
	history, err := db.LookupHistory(ctx, 0)
	if err != nil {
		t.Fatalf("LookupHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].Lookup != config.LookupUnit || history[0].RecordID != "u1" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if !strings.Contains(m.View(), "1A-12 Jane Doe") {
		t.Fatalf("expected active unit in header")
	}
	if m.detail != nil {
		t.Fatalf("unit selection should not replace the detail pane")
	}
}

func TestActiveOfficerRestoredOnStart(t *testing.T) {
	db := setupModelDB(t)
	first := newTestConsole(t, Deps{DB: db})
	withOfficer(t, first, onDutyUnit())

	second := newTestConsole(t, Deps{DB: db})
	if second.officer == nil || second.officer.ID != "u1" {
		t.Fatalf("expected restored officer, got %+v", second.officer)
	}
	if !second.officer.OnDuty() {
		t.Fatalf("expected restored officer to be on duty")
	}
}

func TestSelectingRecordShowsDetailAndCaches(t *testing.T) {
	ctx := context.Background()
	db := setupModelDB(t)
	m := withOfficer(t, newTestConsole(t, Deps{DB: db}), onDutyUnit())

	citizen := testutil.NewCitizen("c1").WithAddress("1 Main St").Build()
	m, _ = m.Update(recordSelectedMsg{Lookup: config.LookupName, Query: "jo", Record: citizen})
	if m.detail == nil || m.detail.SuggestionID() != "c1" {
		t.Fatalf("expected citizen detail, got %+v", m.detail)
	}
	view := m.View()
	for _, want := range []string{"Citizen Record", "John Doe", "1 Main St"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}

	rec, err := db.GetRecord(ctx, models.KindCitizen, "c1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if rec.Label() != "John Doe" {
		t.Fatalf("unexpected cached label %q", rec.Label())
	}
	history, _ := db.LookupHistory(ctx, 1)
	if len(history) != 1 || history[0].OfficerID != "u1" || history[0].Query != "jo" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestNameLookupEndToEnd(t *testing.T) {
	tr := &fakeTransport{body: `[{"id":"c1","name":"John","surname":"Doe"},{"id":"c2","name":"Joan","surname":"Dee"}]`}
	m := withOfficer(t, newTestConsole(t, Deps{Transport: tr}), onDutyUnit())

	m, _ = press(m, "1")
	if m.modal == nil {
		t.Fatalf("expected name lookup modal, status %q", m.status)
	}
	var cmds []tea.Cmd
	for _, r := range "jo" {
		var cmd tea.Cmd
		m, cmd = press(m, string(r))
		cmds = append(cmds, cmd)
	}
	m = pump(t, m, tea.Batch(cmds...))

	reqs := tr.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one debounced request, got %d", len(reqs))
	}
	if reqs[0].Path != "/search/name" || reqs[0].Body["name"] != "jo" {
		t.Fatalf("unexpected request: %+v", reqs[0])
	}
	lm := m.modal.(*LookupModal)
	if !lm.field.Open() {
		t.Fatalf("expected dropdown to open")
	}

	m, _ = press(m, "down")
	m, _ = press(m, "down")
	m, cmd := press(m, "enter")
	m = pump(t, m, cmd)

	if m.modal != nil {
		t.Fatalf("expected modal to close after selection")
	}
	if m.detail == nil || m.detail.SuggestionID() != "c2" {
		t.Fatalf("expected second suggestion selected, got %+v", m.detail)
	}
}

func TestLookupModalEscClosesWhenListClosed(t *testing.T) {
	m := withOfficer(t, newTestConsole(t, Deps{Transport: &fakeTransport{body: "[]"}}), onDutyUnit())
	m, _ = press(m, "2")
	if m.modal == nil {
		t.Fatalf("expected plate lookup modal")
	}
	m, _ = press(m, "esc")
	if m.modal != nil {
		t.Fatalf("expected esc to close the modal")
	}
}

func TestLookupModalTabBlursField(t *testing.T) {
	m := withOfficer(t, newTestConsole(t, Deps{Transport: &fakeTransport{body: "[]"}}), onDutyUnit())
	m, _ = press(m, "1")
	lm := m.modal.(*LookupModal)
	m, _ = press(m, "x")
	if lm.field.Value() != "x" {
		t.Fatalf("expected typed value, got %q", lm.field.Value())
	}

	m, _ = press(m, "tab")
	if lm.field.Focused() {
		t.Fatalf("expected field to lose focus")
	}
	if lm.field.Value() != "" {
		t.Fatalf("expected blur to clear an unmatched query, got %q", lm.field.Value())
	}
	m, _ = press(m, "enter")
	if m.modal != nil {
		t.Fatalf("expected enter on Close to close the modal")
	}
}

func TestPanicButtonPostsOfficerID(t *testing.T) {
	poster := &fakePoster{}
	m := withOfficer(t, newTestConsole(t, Deps{Poster: poster}), onDutyUnit())

	m, _ = press(m, "6")
	if m.modal == nil || m.modal.Type() != ModalPanic {
		t.Fatalf("expected panic confirmation")
	}
	m, cmd := press(m, "y")
	m = pump(t, m, cmd)

	if len(poster.paths) != 1 || poster.paths[0] != config.PanicButtonPath {
		t.Fatalf("unexpected posts: %v", poster.paths)
	}
	body, ok := poster.bodies[0].(map[string]string)
	if !ok || body["officerId"] != "u1" {
		t.Fatalf("unexpected body: %#v", poster.bodies[0])
	}
	if !strings.Contains(m.status, "sent for 1A-12") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPanicButtonBlockedWhileSending(t *testing.T) {
	poster := &fakePoster{}
	m := withOfficer(t, newTestConsole(t, Deps{Poster: poster}), onDutyUnit())

	m, _ = press(m, "6")
	m, confirm := press(m, "y")
	m, send := m.Update(confirm())
	if send == nil || !m.panicPending {
		t.Fatalf("expected a pending panic send")
	}

	m, _ = press(m, "6")
	if m.modal != nil {
		t.Fatalf("expected panic button to stay closed while sending")
	}
	if m.status != panicPendingMessage || !m.statusErr {
		t.Fatalf("unexpected status %q", m.status)
	}
	m, again := m.Update(panicConfirmedMsg{})
	if again != nil {
		t.Fatalf("expected no second send while the first is pending")
	}

	m, _ = m.Update(send())
	if m.panicPending {
		t.Fatalf("expected pending flag to clear on result")
	}
	if len(poster.paths) != 1 {
		t.Fatalf("expected exactly one post, got %d", len(poster.paths))
	}
	m, _ = press(m, "6")
	if m.modal == nil || m.modal.Type() != ModalPanic {
		t.Fatalf("expected panic button to work again after the result")
	}
}

func TestPanicButtonCancel(t *testing.T) {
	poster := &fakePoster{}
	m := withOfficer(t, newTestConsole(t, Deps{Poster: poster}), onDutyUnit())
	m, _ = press(m, "6")
	m, cmd := press(m, "n")
	if m.modal != nil || cmd != nil {
		t.Fatalf("expected cancel to close without a command")
	}
	if len(poster.paths) != 0 {
		t.Fatalf("expected no post")
	}
}

func TestPanicButtonOffline(t *testing.T) {
	m := withOfficer(t, newTestConsole(t, Deps{Offline: true}), onDutyUnit())
	m, _ = m.Update(panicConfirmedMsg{})
	if !strings.Contains(m.status, "offline") || !m.statusErr {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPanicFailureShowsUnauthorized(t *testing.T) {
	m := withOfficer(t, newTestConsole(t, Deps{}), onDutyUnit())
	err := &transport.StatusError{Method: "POST", Path: config.PanicButtonPath, Status: 401, Message: "Invalid token"}
	m, _ = m.Update(panicResultMsg{callsign: "1A-12", err: err})
	if !strings.Contains(m.status, config.TokenEnv) || !m.statusErr {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestNotifyMsgShowsError(t *testing.T) {
	m := newTestConsole(t, Deps{})
	m, _ = m.Update(NotifyMsg{Err: errors.New("gateway down")})
	if !strings.Contains(m.View(), "gateway down") {
		t.Fatalf("expected error in status line")
	}
}

func TestThemeSelectionPersists(t *testing.T) {
	ctx := context.Background()
	db := setupModelDB(t)
	m := newTestConsole(t, Deps{DB: db})
	m, _ = press(m, "t")
	if m.modal == nil || m.modal.Type() != ModalTheme {
		t.Fatalf("expected theme picker")
	}
	state := m.modal.(*ThemeState)
	target := state.Names[(state.Cursor+1)%len(state.Names)]
	m, _ = press(m, "down")
	m, cmd := press(m, "enter")
	m = pump(t, m, cmd)

	if m.themeName != target {
		t.Fatalf("expected theme %q, got %q", target, m.themeName)
	}
	if saved, ok := db.GetSetting(ctx, database.SettingTheme); !ok || saved != target {
		t.Fatalf("expected saved theme %q, got %q", target, saved)
	}
	again := newTestConsole(t, Deps{DB: db})
	if again.themeName != target {
		t.Fatalf("expected theme to be restored, got %q", again.themeName)
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Theme = "neon"
	m := newTestConsole(t, Deps{Config: cfg})
	if m.themeName != "default" {
		t.Fatalf("expected default theme, got %q", m.themeName)
	}
}

func TestRecentListShowsCachedRecords(t *testing.T) {
	ctx := context.Background()
	db := setupModelDB(t)
	for _, rec := range []models.Record{
		models.Citizen{ID: "c1", Name: "John", Surname: "Doe"},
		testutil.NewVehicle("v1", "abc123").Build(),
	} {
		if _, err := db.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}
	}
	m := newTestConsole(t, Deps{DB: db})

	m, _ = press(m, "r")
	if m.viewMode != ViewRecent {
		t.Fatalf("expected recent view")
	}
	if len(m.recent.Results) != 2 {
		t.Fatalf("expected 2 cached records, got %d", len(m.recent.Results))
	}

	for _, r := range "kind:vehicle" {
		m, _ = press(m, string(r))
	}
	if len(m.recent.Results) != 1 || m.recent.Results[0].RecordID != "v1" {
		t.Fatalf("expected vehicle only, got %+v", m.recent.Results)
	}

	m, _ = press(m, "enter")
	if m.viewMode != ViewButtons {
		t.Fatalf("expected to return to buttons")
	}
	if m.detail == nil || m.detail.SuggestionID() != "v1" {
		t.Fatalf("expected vehicle detail, got %+v", m.detail)
	}
}

func TestRecentEscReturnsToButtons(t *testing.T) {
	m := newTestConsole(t, Deps{})
	m, _ = press(m, "r")
	m, _ = press(m, "q")
	if m.viewMode != ViewRecent || m.recent.Input.Value() != "q" {
		t.Fatalf("expected q to be typed into the filter")
	}
	m, _ = press(m, "esc")
	if m.viewMode != ViewButtons || m.recent.Input.Value() != "" {
		t.Fatalf("expected esc to reset the recent view")
	}
}

func TestExportDetailWritesRecordSheet(t *testing.T) {
	dir := t.TempDir()
	m := newTestConsole(t, Deps{ReportsDir: dir})
	m, _ = press(m, "p")
	if m.status != "Nothing to print" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m.detail = models.Weapon{ID: "w/1", SerialNumber: "SN-42"}
	m, _ = press(m, "p")
	if m.statusErr {
		t.Fatalf("export failed: %s", m.status)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "weapon_w_1_") {
		t.Fatalf("unexpected report files: %v", entries)
	}
}

func TestCursorMovesWithinGrid(t *testing.T) {
	m := newTestConsole(t, Deps{})
	m, _ = press(m, "right")
	m, _ = press(m, "down")
	if m.cursor != 1+config.ButtonColumns {
		t.Fatalf("expected cursor %d, got %d", 1+config.ButtonColumns, m.cursor)
	}
	m, _ = press(m, "down")
	if m.cursor != 1+config.ButtonColumns {
		t.Fatalf("expected cursor to stay on the last row")
	}
	m.cursor = config.ButtonColumns - 1
	m, _ = press(m, "right")
	if m.cursor != config.ButtonColumns-1 {
		t.Fatalf("expected cursor to stay in its row, got %d", m.cursor)
	}
}

func TestMouseClickActivatesButton(t *testing.T) {
	m := newTestConsole(t, Deps{Transport: &fakeTransport{body: "[]"}})
	idx := buttonIndex(t, m, "Select Unit")
	cell := m.theme.Button.Render("")
	x := m.theme.Base.GetMarginLeft() + (idx%config.ButtonColumns)*lipgloss.Width(cell) + 1
	y := m.theme.Base.GetMarginTop() + lipgloss.Height(m.renderHeader()) + (idx/config.ButtonColumns)*lipgloss.Height(cell) + 1
	if got := m.buttonAt(x, y); got != idx {
		t.Fatalf("expected hit on button %d, got %d", idx, got)
	}
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.modal == nil || m.modal.(*LookupModal).Name != config.LookupUnit {
		t.Fatalf("expected unit lookup after click")
	}
	if m.buttonAt(0, 0) != -1 {
		t.Fatalf("expected margin to miss every button")
	}
}

func TestHelpListsBindings(t *testing.T) {
	m := newTestConsole(t, Deps{})
	help := m.registry.HelpForView(ViewButtons)
	for _, want := range []string{"[r]recent", "[p]print sheet", "[q]quit"} {
		if !strings.Contains(help, want) {
			t.Fatalf("expected %q in help %q", want, help)
		}
	}
	if strings.Contains(m.registry.HelpForView(ViewRecent), "[q]") {
		t.Fatalf("recent view should not bind q")
	}
}
