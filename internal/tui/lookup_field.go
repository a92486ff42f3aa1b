package tui

import (
	"fmt"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/typeahead"
	tea "github.com/charmbracelet/bubbletea"
)

// recordSelectedMsg carries a picked suggestion out of a lookup modal.
type recordSelectedMsg struct {
	Lookup string
	Query  string
	Record models.Record
}

// lookupField hides the record type of the typeahead behind a lookup.
type lookupField interface {
	ID() int
	Update(msg tea.Msg) tea.Cmd
	View() string
	Focus() tea.Cmd
	Blur() tea.Cmd
	Close()
	Open() bool
	Focused() bool
	Value() string
	SetOrigin(x, y int)
}

type recordField[S models.Record] struct {
	lookup string
	model  typeahead.Model[S]
}

type fieldOptions struct {
	Transport typeahead.Transport
	Touch     bool
	Styles    typeahead.Styles
}

func newRecordField[S models.Record](name string, l config.Lookup, opts fieldOptions, render func(S) string) *recordField[S] {
	model := typeahead.New(typeahead.Options[S]{
		Render:      render,
		Search:      searchConfig(l),
		Transport:   opts.Transport,
		Placeholder: l.Placeholder,
		Prompt:      "> ",
		Width:       config.InputWidth,
		CharLimit:   config.MaxQueryLength,
		Touch:       opts.Touch,
	})
	model.Styles = opts.Styles
	return &recordField[S]{lookup: name, model: model}
}

// newLookupField builds the typeahead for the record kind a lookup returns.
func newLookupField(name string, l config.Lookup, opts fieldOptions) (lookupField, error) {
	switch models.Kind(l.Kind) {
	case models.KindCitizen:
		return newRecordField(name, l, opts, renderCitizen), nil
	case models.KindVehicle:
		return newRecordField(name, l, opts, renderVehicle), nil
	case models.KindWeapon:
		return newRecordField(name, l, opts, renderWeapon), nil
	case models.KindUnit:
		return newRecordField(name, l, opts, renderUnit), nil
	case models.KindCall:
		return newRecordField(name, l, opts, renderCall), nil
	}
	return nil, fmt.Errorf("lookup %q: unknown record kind %q", name, l.Kind)
}

func searchConfig(l config.Lookup) typeahead.SearchConfig {
	var path typeahead.PathResolver = typeahead.StaticPath(l.Path)
	if l.Dynamic() {
		path = typeahead.PathFunc(l.ResolvePath)
	}
	return typeahead.SearchConfig{
		Path:         path,
		Method:       l.Method,
		RequestKey:   l.RequestKey,
		AllowUnknown: l.AllowUnknown,
	}
}

func (f *recordField[S]) ID() int { return f.model.ID() }

func (f *recordField[S]) Update(msg tea.Msg) tea.Cmd {
	if sel, ok := msg.(typeahead.SelectedMsg[S]); ok {
		if sel.ID != f.model.ID() {
			return nil
		}
		selected := recordSelectedMsg{Lookup: f.lookup, Query: f.model.Value(), Record: sel.Item}
		return func() tea.Msg { return selected }
	}
	var cmd tea.Cmd
	f.model, cmd = f.model.Update(msg)
	return cmd
}

func (f *recordField[S]) View() string       { return f.model.View() }
func (f *recordField[S]) Focus() tea.Cmd     { return f.model.Focus() }
func (f *recordField[S]) Blur() tea.Cmd      { return f.model.Blur() }
func (f *recordField[S]) Close()             { f.model.Close() }
func (f *recordField[S]) Open() bool         { return f.model.Open() }
func (f *recordField[S]) Focused() bool      { return f.model.Focused() }
func (f *recordField[S]) Value() string      { return f.model.Value() }
func (f *recordField[S]) SetOrigin(x, y int) { f.model.SetOrigin(x, y) }
