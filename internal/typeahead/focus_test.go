package typeahead

import "testing"

func TestRowFocusWrap(t *testing.T) {
	f := NewRowFocus()
	if f.Focused() != -1 {
		t.Fatalf("new RowFocus should start on the input")
	}
	f.SetCount(3)
	f.FocusFirst()
	f.FocusPrevious(true)
	if f.Focused() != 2 {
		t.Fatalf("FocusPrevious(true) from first = %d, want 2", f.Focused())
	}
	f.FocusNext(true)
	if f.Focused() != 0 {
		t.Fatalf("FocusNext(true) from last = %d, want 0", f.Focused())
	}
}

func TestRowFocusClamp(t *testing.T) {
	f := NewRowFocus()
	f.SetCount(2)
	f.FocusFirst()
	f.FocusPrevious(false)
	if f.Focused() != 0 {
		t.Fatalf("FocusPrevious(false) = %d, want 0", f.Focused())
	}
	f.FocusNext(false)
	f.FocusNext(false)
	if f.Focused() != 1 {
		t.Fatalf("FocusNext(false) = %d, want 1", f.Focused())
	}
}

func TestRowFocusEmpty(t *testing.T) {
	f := NewRowFocus()
	f.FocusFirst()
	f.FocusNext(true)
	if f.Focused() != -1 {
		t.Fatalf("empty list should keep focus on the input, got %d", f.Focused())
	}
	f.SetCount(4)
	f.FocusFirst()
	f.FocusNext(true)
	f.FocusNext(true)
	f.FocusNext(true)
	f.SetCount(2)
	if f.Focused() != -1 {
		t.Fatalf("shrinking past the focused row should reset focus, got %d", f.Focused())
	}
}
