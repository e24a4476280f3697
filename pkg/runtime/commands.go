package runtime

// Command represents an action/intent emitted by widgets.
// Commands bubble up from widgets to the app for handling.
type Command interface {
	isCommand()
}

// Quit signals the application should exit.
type Quit struct{}

func (Quit) isCommand() {}

// Refresh requests a full screen redraw.
type Refresh struct{}

func (Refresh) isCommand() {}

// Submit indicates text was submitted (e.g., from an input widget).
type Submit struct {
	Text string
}

func (Submit) isCommand() {}

// Cancel indicates an operation was cancelled (e.g., Escape pressed).
type Cancel struct{}

func (Cancel) isCommand() {}

// FocusNext requests focus move to the next focusable widget. Widgets emit
// this to opt into traversal; the runtime never moves focus on its own.
type FocusNext struct{}

func (FocusNext) isCommand() {}

// FocusPrev requests focus move to the previous focusable widget.
type FocusPrev struct{}

func (FocusPrev) isCommand() {}

// PushOverlay requests a new layer be pushed on the window.
type PushOverlay struct {
	Widget Widget
	Modal  bool
}

func (PushOverlay) isCommand() {}

// PopOverlay requests the top layer be dismissed.
type PopOverlay struct{}

func (PopOverlay) isCommand() {}
