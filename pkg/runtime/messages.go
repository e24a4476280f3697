package runtime

import (
	"time"

	"github.com/loomtui/loom/pkg/terminal"
	"github.com/loomtui/loom/pkg/theme"
)

// Message represents an event flowing into the UI.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key   terminal.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseMsg represents a mouse input event. Coordinates are absolute screen
// cells.
type MouseMsg struct {
	X, Y   int
	Button terminal.MouseButton
	Action terminal.MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseMsg) isMessage() {}

// PasteMsg represents pasted text from bracketed paste mode.
type PasteMsg struct {
	Text string
}

func (PasteMsg) isMessage() {}

// PointerEnterMsg is delivered to a widget when the pointer moves onto it.
// The window sends it exactly once per hover target change; it does not
// bubble.
type PointerEnterMsg struct {
	X, Y int
}

func (PointerEnterMsg) isMessage() {}

// PointerLeaveMsg is delivered to a widget when the pointer moves off it.
// Sent exactly once per hover target change; does not bubble.
type PointerLeaveMsg struct{}

func (PointerLeaveMsg) isMessage() {}

// ThemeMsg swaps the active theme. Posting one is the safe way to apply a
// theme from outside the event loop, such as a file watcher.
type ThemeMsg struct {
	Theme *theme.Theme
}

func (ThemeMsg) isMessage() {}

// TickMsg is broadcast on each frame tick for animations. Delta is the time
// since the previous tick.
type TickMsg struct {
	Time  time.Time
	Delta time.Duration
}

func (TickMsg) isMessage() {}
