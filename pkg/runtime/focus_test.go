package runtime

import (
	"testing"
)

// focusEntry is a minimal focusable widget for scope tests. Disabled entries
// stay registered but refuse focus, like a disabled button.
type focusEntry struct {
	stubWidget
	canFocus bool
	focused  bool
}

func newFocusEntry(id string) *focusEntry {
	return &focusEntry{stubWidget: stubWidget{id: id}, canFocus: true}
}

func newDisabledEntry(id string) *focusEntry {
	return &focusEntry{stubWidget: stubWidget{id: id}}
}

func (f *focusEntry) CanFocus() bool  { return f.canFocus }
func (f *focusEntry) Focus()          { f.focused = true }
func (f *focusEntry) Blur()           { f.focused = false }
func (f *focusEntry) IsFocused() bool { return f.focused }

func TestFocusScope_New(t *testing.T) {
	fs := NewFocusScope()

	if fs.Count() != 0 {
		t.Errorf("Count() = %d, want 0", fs.Count())
	}
	if fs.Current() != nil {
		t.Error("Current() should be nil for empty scope")
	}
}

func TestFocusScope_RegisterDoesNotFocus(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")

	fs.Register(w1)
	fs.Register(w2)

	if fs.Count() != 2 {
		t.Errorf("Count() = %d, want 2", fs.Count())
	}
	// Registration orders traversal but never moves focus.
	if fs.Current() != nil {
		t.Error("Current() should be nil until focus is requested")
	}
	if w1.focused || w2.focused {
		t.Error("no widget should be focused by registration")
	}
}

func TestFocusScope_RegisterDuplicate(t *testing.T) {
	fs := NewFocusScope()
	w := newFocusEntry("w")

	fs.Register(w)
	fs.Register(w) // Duplicate

	if fs.Count() != 1 {
		t.Errorf("Duplicate register should not add, Count() = %d, want 1", fs.Count())
	}
}

func TestFocusScope_Unregister(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")
	w3 := newFocusEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)
	fs.SetFocus(w1)

	// Unregister non-focused widget
	fs.Unregister(w2)
	if fs.Count() != 2 {
		t.Errorf("Count() = %d, want 2", fs.Count())
	}
	if fs.Current() != w1 {
		t.Error("w1 should still be focused")
	}
}

func TestFocusScope_UnregisterFocused(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")

	fs.Register(w1)
	fs.Register(w2)
	fs.SetFocus(w1)

	// Unregister the focused widget
	fs.Unregister(w1)

	if fs.Count() != 1 {
		t.Errorf("Count() = %d, want 1", fs.Count())
	}
	// Nothing is focused; focus never jumps on its own.
	if fs.Current() != nil {
		t.Error("nothing should be focused after unregistering the focused widget")
	}
	if w1.focused {
		t.Error("w1 should be blurred")
	}
	if w2.focused {
		t.Error("w2 should not gain focus")
	}
}

func TestFocusScope_UnregisterBeforeFocused(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")
	w3 := newFocusEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)
	fs.SetFocus(w3)

	// Unregister w1 (before the focused index)
	fs.Unregister(w1)

	// w3 should still be focused
	if fs.Current() != w3 {
		t.Error("w3 should still be focused")
	}
}

func TestFocusScope_SetFocus(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")

	fs.Register(w1)
	fs.Register(w2)
	fs.SetFocus(w1)

	changed := fs.SetFocus(w2)
	if !changed {
		t.Error("SetFocus should return true when focus changes")
	}
	if fs.Current() != w2 {
		t.Error("w2 should be focused")
	}
	if w1.focused {
		t.Error("w1 should be blurred")
	}
	if !w2.focused {
		t.Error("w2 should be focused")
	}
}

func TestFocusScope_SetFocusSameWidget(t *testing.T) {
	fs := NewFocusScope()
	w := newFocusEntry("w")

	fs.Register(w)
	fs.SetFocus(w)

	changed := fs.SetFocus(w)
	if changed {
		t.Error("SetFocus should return false when focusing already-focused widget")
	}
}

func TestFocusScope_SetFocusNonFocusable(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newDisabledEntry("w2")

	fs.Register(w1)
	fs.Register(w2)
	fs.SetFocus(w1)

	changed := fs.SetFocus(w2)
	if changed {
		t.Error("SetFocus should return false for non-focusable widget")
	}
	if fs.Current() != w1 {
		t.Error("w1 should still be focused")
	}
}

func TestFocusScope_SetFocusUnregistered(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")

	fs.Register(w1)

	changed := fs.SetFocus(w2)
	if changed {
		t.Error("SetFocus should return false for unregistered widget")
	}
}

func TestFocusScope_FocusFirst(t *testing.T) {
	fs := NewFocusScope()
	w1 := newDisabledEntry("w1")
	w2 := newFocusEntry("w2")
	w3 := newFocusEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)
	fs.SetFocus(w3)

	// FocusFirst should skip non-focusable and focus w2
	changed := fs.FocusFirst()
	if !changed {
		t.Error("FocusFirst should return true")
	}
	if fs.Current() != w2 {
		t.Error("FocusFirst should focus w2 (first focusable)")
	}
}

func TestFocusScope_FocusFirstEmpty(t *testing.T) {
	fs := NewFocusScope()

	changed := fs.FocusFirst()
	if changed {
		t.Error("FocusFirst should return false for empty scope")
	}
}

func TestFocusScope_FocusFirstAllNonFocusable(t *testing.T) {
	fs := NewFocusScope()
	w1 := newDisabledEntry("w1")
	w2 := newDisabledEntry("w2")

	fs.Register(w1)
	fs.Register(w2)

	changed := fs.FocusFirst()
	if changed {
		t.Error("FocusFirst should return false when all widgets are non-focusable")
	}
}

func TestFocusScope_FocusLast(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")
	w3 := newDisabledEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)

	// FocusLast should skip non-focusable and focus w2
	changed := fs.FocusLast()
	if !changed {
		t.Error("FocusLast should return true")
	}
	if fs.Current() != w2 {
		t.Error("FocusLast should focus w2 (last focusable)")
	}
}

func TestFocusScope_FocusNext(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")
	w3 := newFocusEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)

	// From nothing, FocusNext starts at the first widget.
	changed := fs.FocusNext()
	if !changed {
		t.Error("FocusNext should return true")
	}
	if fs.Current() != w1 {
		t.Error("FocusNext from nothing should focus w1")
	}

	fs.FocusNext()
	if fs.Current() != w2 {
		t.Error("FocusNext should focus w2")
	}

	fs.FocusNext()
	if fs.Current() != w3 {
		t.Error("FocusNext should focus w3")
	}

	// Wrap around
	fs.FocusNext()
	if fs.Current() != w1 {
		t.Error("FocusNext should wrap to w1")
	}
}

func TestFocusScope_FocusNextSkipsNonFocusable(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newDisabledEntry("w2")
	w3 := newFocusEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)
	fs.SetFocus(w1)

	// FocusNext should skip w2 and go to w3
	fs.FocusNext()
	if fs.Current() != w3 {
		t.Error("FocusNext should skip non-focusable and focus w3")
	}
}

func TestFocusScope_FocusNextEmpty(t *testing.T) {
	fs := NewFocusScope()

	changed := fs.FocusNext()
	if changed {
		t.Error("FocusNext should return false for empty scope")
	}
}

func TestFocusScope_FocusPrev(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")
	w3 := newFocusEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)

	// From nothing, FocusPrev starts at the last widget.
	changed := fs.FocusPrev()
	if !changed {
		t.Error("FocusPrev should return true")
	}
	if fs.Current() != w3 {
		t.Error("FocusPrev from nothing should focus w3")
	}

	fs.FocusPrev()
	if fs.Current() != w2 {
		t.Error("FocusPrev should focus w2")
	}

	fs.FocusPrev()
	if fs.Current() != w1 {
		t.Error("FocusPrev should focus w1")
	}

	// Wrap around
	fs.FocusPrev()
	if fs.Current() != w3 {
		t.Error("FocusPrev should wrap to w3")
	}
}

func TestFocusScope_FocusPrevSkipsNonFocusable(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newDisabledEntry("w2")
	w3 := newFocusEntry("w3")

	fs.Register(w1)
	fs.Register(w2)
	fs.Register(w3)
	fs.SetFocus(w3)

	// FocusPrev should skip w2 and go to w1
	fs.FocusPrev()
	if fs.Current() != w1 {
		t.Error("FocusPrev should skip non-focusable and focus w1")
	}
}

func TestFocusScope_ClearFocus(t *testing.T) {
	fs := NewFocusScope()
	w := newFocusEntry("w")

	fs.Register(w)
	fs.SetFocus(w)
	if !w.focused {
		t.Fatal("w should be focused after SetFocus")
	}

	fs.ClearFocus()

	if fs.Current() != nil {
		t.Error("Current() should be nil after ClearFocus")
	}
	if w.focused {
		t.Error("w should be blurred after ClearFocus")
	}
}

func TestFocusScope_ClearFocusEmpty(t *testing.T) {
	fs := NewFocusScope()

	// Should not panic
	fs.ClearFocus()

	if fs.Current() != nil {
		t.Error("Current() should be nil")
	}
}

func TestFocusScope_SingleNonFocusableAllOperations(t *testing.T) {
	fs := NewFocusScope()
	w := newDisabledEntry("w")

	fs.Register(w)

	if fs.FocusFirst() {
		t.Error("FocusFirst should return false")
	}
	if fs.FocusLast() {
		t.Error("FocusLast should return false")
	}
	if fs.FocusNext() {
		t.Error("FocusNext should return false")
	}
	if fs.FocusPrev() {
		t.Error("FocusPrev should return false")
	}
}

func TestFocusScope_ToggleFocusability(t *testing.T) {
	fs := NewFocusScope()
	w1 := newFocusEntry("w1")
	w2 := newFocusEntry("w2")

	fs.Register(w1)
	fs.Register(w2)
	fs.SetFocus(w1)

	// Disable w1 while it holds focus
	w1.canFocus = false

	fs.FocusNext()
	if fs.Current() != w2 {
		t.Error("FocusNext should focus w2")
	}

	// FocusPrev should skip w1 and wrap back to w2
	fs.FocusPrev()
	if fs.Current() != w2 {
		t.Error("FocusPrev should stay at w2 (w1 is non-focusable)")
	}
}
