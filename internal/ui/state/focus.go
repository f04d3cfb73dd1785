package state

// Focus tracks the keyboard-focused element of the visible panel. Cursor is
// an index into the panel's interactive elements, or -1 when nothing is
// focused.
type Focus struct {
	Panel  string
	Cursor int
	count  int
}

// NewFocus returns an empty focus.
func NewFocus() *Focus {
	return &Focus{Cursor: -1}
}

// Sync binds the focus to panel with count focusable elements. Switching
// panels resets the cursor; staying on the same panel clamps it.
func (f *Focus) Sync(panel string, count int) bool {
	if count < 0 {
		count = 0
	}
	if panel != f.Panel {
		f.Panel = panel
		f.count = count
		f.Cursor = -1
		return true
	}
	f.count = count
	old := f.Cursor
	if f.Cursor >= count {
		f.Cursor = count - 1
	}
	return old != f.Cursor
}

// Clear drops the focus entirely.
func (f *Focus) Clear() {
	f.Panel = ""
	f.count = 0
	f.Cursor = -1
}

// Len returns the number of focusable elements.
func (f *Focus) Len() int { return f.count }

// MoveHome focuses the first element.
func (f *Focus) MoveHome() bool {
	if f.count == 0 {
		f.Cursor = -1
		return false
	}
	old := f.Cursor
	f.Cursor = 0
	return old != f.Cursor
}

// MoveEnd focuses the last element.
func (f *Focus) MoveEnd() bool {
	if f.count == 0 {
		f.Cursor = -1
		return false
	}
	old := f.Cursor
	f.Cursor = f.count - 1
	return old != f.Cursor
}

// MoveNext advances the focus, wrapping past the end.
func (f *Focus) MoveNext() bool {
	if f.count == 0 {
		f.Cursor = -1
		return false
	}
	old := f.Cursor
	f.Cursor = (f.Cursor + 1) % f.count
	return old != f.Cursor
}

// MovePrev moves the focus back, wrapping before the start.
func (f *Focus) MovePrev() bool {
	if f.count == 0 {
		f.Cursor = -1
		return false
	}
	old := f.Cursor
	if f.Cursor <= 0 {
		f.Cursor = f.count - 1
	} else {
		f.Cursor--
	}
	return old != f.Cursor
}

// MoveBy moves the focus by delta without wrapping.
func (f *Focus) MoveBy(delta int) bool {
	if f.count == 0 {
		f.Cursor = -1
		return false
	}
	old := f.Cursor
	if f.Cursor < 0 {
		f.Cursor = 0
	}
	f.Cursor += delta
	if f.Cursor < 0 {
		f.Cursor = 0
	}
	if f.Cursor >= f.count {
		f.Cursor = f.count - 1
	}
	return f.Cursor != old
}
