// Package typeahead provides a debounced search field with a dropdown of
// remote suggestions for bubbletea programs.
//
// The field updates on every key press. The search itself runs only after
// the query has been idle for the debounce window and is at least MinLength
// runes long once trimmed. Only JSON array responses replace the suggestion
// list; every other outcome keeps the previous list and leaves the dropdown
// closed.
package typeahead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/util"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tidwall/gjson"
)

var (
	ErrMalformedResponse = errors.New("response is not valid JSON")
	ErrNotList           = errors.New("response is not a list")
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

type debounceMsg struct {
	id    int
	gen   int
	query string
}

type resultMsg struct {
	id   int
	seq  int
	body []byte
	err  error
}

// SelectedMsg is sent after a suggestion has been picked.
type SelectedMsg[S Suggestion] struct {
	ID   int
	Item S
}

// ClosedMsg is sent when the user dismisses the dropdown.
type ClosedMsg struct {
	ID int
}

// Options configures a Model.
type Options[S Suggestion] struct {
	Render    func(S) string
	OnSelect  func(S)
	Search    SearchConfig
	Transport Transport
	Focus     FocusController

	Placeholder string
	Prompt      string
	Width       int
	CharLimit   int
	OnChange    func(value string)
	OnBlur      func(value string)

	// Touch keeps the dropdown open when focus leaves the widget.
	Touch     bool
	Debounce  time.Duration
	MinLength int
	MaxRows   int
}

// Model is a typeahead search field.
type Model[S Suggestion] struct {
	KeyMap KeyMap
	Styles Styles

	opts    Options[S]
	id      int
	input   textinput.Model
	spinner spinner.Model
	focus   FocusController

	suggestions []S
	open        bool
	focused     bool
	loading     bool

	debounceGen int
	requestSeq  int
	cancel      context.CancelFunc

	originX int
	originY int
}

func New[S Suggestion](opts Options[S]) Model[S] {
	if opts.Focus == nil {
		opts.Focus = NewRowFocus()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = config.DebounceDelay
	}
	if opts.MinLength <= 0 {
		opts.MinLength = config.MinQueryLength
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = config.MaxSuggestionRows
	}
	if opts.Render == nil {
		opts.Render = func(s S) string { return s.SuggestionID() }
	}

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	if opts.Prompt != "" {
		ti.Prompt = opts.Prompt
	}
	ti.Width = opts.Width
	ti.CharLimit = opts.CharLimit

	styles := DefaultStyles()
	return Model[S]{
		KeyMap:  DefaultKeyMap,
		Styles:  styles,
		opts:    opts,
		id:      nextID(),
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.Spinner)),
		focus:   opts.Focus,
	}
}

func (m Model[S]) Init() tea.Cmd {
	return nil
}

// ID identifies the widget in emitted messages.
func (m Model[S]) ID() int { return m.id }

func (m Model[S]) Value() string { return m.input.Value() }

// SetValue replaces the query without triggering a search.
func (m *Model[S]) SetValue(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
}

func (m Model[S]) Suggestions() []S { return m.suggestions }

func (m Model[S]) Open() bool { return m.open }

func (m Model[S]) Loading() bool { return m.loading }

func (m Model[S]) Focused() bool { return m.focused }

// FocusedRow returns the focused suggestion index, or -1.
func (m Model[S]) FocusedRow() int { return m.focus.Focused() }

// SetOrigin records the screen position of the widget's top-left cell,
// used to hit-test mouse clicks.
func (m *Model[S]) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// Focus gives the widget keyboard focus and reopens cached suggestions.
func (m *Model[S]) Focus() tea.Cmd {
	m.focused = true
	cmd := m.input.Focus()
	if len(m.suggestions) > 0 && len([]rune(m.input.Value())) > m.opts.MinLength {
		m.open = true
	}
	return cmd
}

// Blur is called when focus leaves both the field and the dropdown. With
// no cached suggestions and AllowUnknown unset the query is cleared.
func (m *Model[S]) Blur() tea.Cmd {
	wasOpen := m.open
	m.focused = false
	m.input.Blur()
	m.focus.Blur()
	if !m.opts.Touch {
		m.open = false
	}

	if len(m.suggestions) == 0 && !m.opts.Search.AllowUnknown {
		m.input.SetValue("")
		m.debounceGen++
		m.cancelInFlight()
		if m.opts.OnChange != nil {
			m.opts.OnChange("")
		}
	}
	if m.opts.OnBlur != nil {
		m.opts.OnBlur(m.input.Value())
	}

	if wasOpen && !m.open {
		return m.closedCmd()
	}
	return nil
}

// Close releases the widget: pending debounce ticks are ignored and the
// in-flight request is cancelled.
func (m *Model[S]) Close() {
	m.debounceGen++
	m.cancelInFlight()
	m.open = false
	m.focus.Blur()
}

func (m Model[S]) Update(msg tea.Msg) (Model[S], tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.id != m.id || msg.gen != m.debounceGen {
			return m, nil
		}
		return m, m.search(msg.query)

	case resultMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.applyResult(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if m.open && m.focus.Focused() >= 0 {
			return m.handleRowKey(msg)
		}
		return m.handleInputKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model[S]) handleInputKey(msg tea.KeyMsg) (Model[S], tea.Cmd) {
	switch {
	case key.Matches(msg, m.KeyMap.Down) && m.open && len(m.suggestions) > 0:
		m.focus.FocusFirst()
		return m, nil
	case key.Matches(msg, m.KeyMap.Dismiss) && m.open:
		return m, m.closeDropdown()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return m, tea.Batch(cmd, m.changed(after))
	}
	return m, cmd
}

func (m Model[S]) handleRowKey(msg tea.KeyMsg) (Model[S], tea.Cmd) {
	switch {
	case key.Matches(msg, m.KeyMap.Down):
		m.focus.FocusNext(true)
		return m, nil
	case key.Matches(msg, m.KeyMap.Up):
		m.focus.FocusPrevious(true)
		return m, nil
	case key.Matches(msg, m.KeyMap.Select):
		if idx := m.focus.Focused(); idx >= 0 && idx < len(m.suggestions) {
			return m.selectAt(idx)
		}
		return m, nil
	case key.Matches(msg, m.KeyMap.Dismiss):
		return m, m.closeDropdown()
	}

	// Any other key goes back to the text field.
	m.focus.Blur()
	return m.handleInputKey(msg)
}

func (m Model[S]) handleMouse(msg tea.MouseMsg) (Model[S], tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || !m.open {
		return m, nil
	}
	if idx := m.rowAt(msg.X, msg.Y); idx >= 0 {
		return m.selectAt(idx)
	}
	if !m.Contains(msg.X, msg.Y) {
		return m, m.closeDropdown()
	}
	return m, nil
}

func (m *Model[S]) changed(value string) tea.Cmd {
	if m.opts.OnChange != nil {
		m.opts.OnChange(value)
	}
	m.debounceGen++
	id, gen := m.id, m.debounceGen
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id, gen: gen, query: value}
	})
}

func (m *Model[S]) search(query string) tea.Cmd {
	m.cancelInFlight()
	if len([]rune(strings.TrimSpace(query))) < m.opts.MinLength {
		m.open = false
		m.focus.Blur()
		return nil
	}
	if m.opts.Transport == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true
	id, seq := m.id, m.requestSeq
	transport := m.opts.Transport
	req := m.opts.Search.request(query)

	fetch := func() tea.Msg {
		defer cancel()
		body, err := transport.Do(ctx, req)
		return resultMsg{id: id, seq: seq, body: body, err: err}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

// cancelInFlight aborts the running request and invalidates its result.
func (m *Model[S]) cancelInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.requestSeq++
	m.loading = false
}

func (m *Model[S]) applyResult(msg resultMsg) {
	if msg.seq != m.requestSeq {
		return
	}
	m.loading = false
	m.cancel = nil
	if msg.err != nil {
		util.LogError("typeahead search", msg.err)
		return
	}

	items, err := decodeSuggestions[S](msg.body)
	if err != nil {
		util.LogError("typeahead response", err)
		return
	}
	m.suggestions = items
	m.focus.SetCount(len(items))
	m.focus.Blur()
	// Touch mode keeps a list that survived a blur open across refreshes.
	m.open = len(items) > 0 && (m.focused || (m.opts.Touch && m.open))
}

func decodeSuggestions[S Suggestion](body []byte) ([]S, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	if !gjson.ParseBytes(body).IsArray() {
		return nil, ErrNotList
	}
	items := []S{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return items, nil
}

func (m Model[S]) selectAt(idx int) (Model[S], tea.Cmd) {
	item := m.suggestions[idx]
	if m.opts.OnSelect != nil {
		m.opts.OnSelect(item)
	}
	m.open = false
	m.focus.Blur()
	id := m.id
	selected := func() tea.Msg { return SelectedMsg[S]{ID: id, Item: item} }
	return m, tea.Batch(selected, m.closedCmd())
}

func (m *Model[S]) closeDropdown() tea.Cmd {
	if !m.open {
		return nil
	}
	m.open = false
	m.focus.Blur()
	return m.closedCmd()
}

func (m Model[S]) closedCmd() tea.Cmd {
	id := m.id
	return func() tea.Msg { return ClosedMsg{ID: id} }
}

func (m Model[S]) View() string {
	line := m.inputLine()
	if !m.open || len(m.suggestions) == 0 {
		return line
	}
	lines := append([]string{line}, m.dropdownLines()...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model[S]) inputLine() string {
	line := m.input.View()
	if m.loading {
		line += " " + m.spinner.View()
	}
	return line
}

// window returns the visible slice of suggestions, keeping the focused
// row in view.
func (m Model[S]) window() (int, int) {
	n := len(m.suggestions)
	if n <= m.opts.MaxRows {
		return 0, n
	}
	start := 0
	if f := m.focus.Focused(); f >= m.opts.MaxRows {
		start = f - m.opts.MaxRows + 1
	}
	return start, start + m.opts.MaxRows
}

func (m Model[S]) labels(start, end int) ([]string, int) {
	labels := make([]string, 0, end-start)
	width := 0
	for _, item := range m.suggestions[start:end] {
		label, _, _ := strings.Cut(m.opts.Render(item), "\n")
		label = ansi.Truncate(label, config.MaxLabelWidth, config.TruncationSuffix)
		labels = append(labels, label)
		width = max(width, ansi.StringWidth(label))
	}
	return labels, width
}

func (m Model[S]) dropdownLines() []string {
	start, end := m.window()
	labels, labelWidth := m.labels(start, end)
	// " > label " : marker, space, label, one column of padding each side.
	inner := labelWidth + 2
	focused := m.focus.Focused()

	lines := make([]string, 0, len(labels)+1)
	for i, label := range labels {
		marker, style := " ", m.Styles.Row
		if start+i == focused {
			marker, style = m.Styles.Marker, m.Styles.Focused
		}
		content := marker + " " + label
		pad := max(inner-ansi.StringWidth(content), 0)
		lines = append(lines, style.Render(" "+content+strings.Repeat(" ", pad)+" "))
	}
	if total := len(m.suggestions); end-start < total {
		info := fmt.Sprintf("%d-%d of %d", start+1, end, total)
		pad := max(inner-ansi.StringWidth(info), 0)
		lines = append(lines, m.Styles.Overflow.Render(" "+info+strings.Repeat(" ", pad)+" "))
	}
	return lines
}

func (m Model[S]) dropdownWidth() int {
	start, end := m.window()
	_, labelWidth := m.labels(start, end)
	return labelWidth + 4
}

// Contains reports whether the screen cell (x, y) is inside the widget.
func (m Model[S]) Contains(x, y int) bool {
	view := m.View()
	width := max(lipgloss.Width(view), m.dropdownWidthIfOpen())
	height := lipgloss.Height(view)
	return x >= m.originX && x < m.originX+width && y >= m.originY && y < m.originY+height
}

func (m Model[S]) dropdownWidthIfOpen() int {
	if !m.open || len(m.suggestions) == 0 {
		return 0
	}
	return m.dropdownWidth()
}

// rowAt maps a screen cell to a suggestion index, or -1.
func (m Model[S]) rowAt(x, y int) int {
	if !m.open || len(m.suggestions) == 0 {
		return -1
	}
	start, end := m.window()
	row := y - m.originY - 1
	if row < 0 || row >= end-start {
		return -1
	}
	if x < m.originX || x >= m.originX+m.dropdownWidth() {
		return -1
	}
	return start + row
}
