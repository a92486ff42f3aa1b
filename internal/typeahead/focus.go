package typeahead

// FocusController moves keyboard focus among the rendered rows.
type FocusController interface {
	SetCount(n int)
	FocusFirst()
	FocusNext(wrap bool)
	FocusPrevious(wrap bool)
	// Blur returns focus to the text field.
	Blur()
	// Focused returns the focused row, or -1 when the text field has focus.
	Focused() int
}

// RowFocus is the default FocusController.
type RowFocus struct {
	count   int
	current int
}

func NewRowFocus() *RowFocus {
	return &RowFocus{current: -1}
}

func (f *RowFocus) SetCount(n int) {
	f.count = n
	if f.current >= n {
		f.current = -1
	}
}

func (f *RowFocus) FocusFirst() {
	if f.count == 0 {
		f.current = -1
		return
	}
	f.current = 0
}

func (f *RowFocus) FocusNext(wrap bool) {
	if f.count == 0 {
		return
	}
	if f.current < f.count-1 {
		f.current++
		return
	}
	if wrap {
		f.current = 0
	}
}

func (f *RowFocus) FocusPrevious(wrap bool) {
	if f.count == 0 {
		return
	}
	if f.current > 0 {
		f.current--
		return
	}
	if wrap {
		f.current = f.count - 1
	}
}

func (f *RowFocus) Blur() { f.current = -1 }

func (f *RowFocus) Focused() int { return f.current }
