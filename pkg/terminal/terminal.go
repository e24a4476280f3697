// Package terminal defines the input event types produced by backends.
package terminal

// Event is an input event read from the host terminal.
type Event interface {
	eventMarker()
}

// KeyEvent reports a key press.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyEvent) eventMarker() {}

// MouseEvent reports pointer motion, button transitions, and wheel notches.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseEvent) eventMarker() {}

// ResizeEvent reports a new terminal size in cells.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// PasteEvent carries bracketed paste content as a single unit.
type PasteEvent struct {
	Text string
}

func (PasteEvent) eventMarker() {}

// MouseButton identifies the button involved in a MouseEvent.
// Wheel notches arrive as button values with a Press action.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

func (b MouseButton) String() string {
	switch b {
	case MouseNone:
		return "none"
	case MouseLeft:
		return "left"
	case MouseMiddle:
		return "middle"
	case MouseRight:
		return "right"
	case MouseWheelUp:
		return "wheel-up"
	case MouseWheelDown:
		return "wheel-down"
	}
	return "unknown"
}

// MouseAction identifies what happened to the button (or pointer).
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)

func (a MouseAction) String() string {
	switch a {
	case MousePress:
		return "press"
	case MouseRelease:
		return "release"
	case MouseMove:
		return "move"
	}
	return "unknown"
}
