// Package backend defines the terminal abstraction the runtime draws to and
// polls events from. Two implementations ship with loom: tcell for real
// terminals and sim for tests.
package backend

import "github.com/loomtui/loom/pkg/terminal"

// Backend is the host surface and event source.
type Backend interface {
	// Init takes over the terminal (alt screen, raw mode, mouse reporting).
	Init() error

	// Fini restores the terminal state.
	Fini()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetContent writes one cell. comb carries combining runes and may be nil.
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show flushes buffered writes to the terminal.
	Show()

	// Clear blanks the surface.
	Clear()

	// HideCursor hides the hardware cursor.
	HideCursor()

	// ShowCursor shows the hardware cursor.
	ShowCursor()

	// SetCursorPos moves the hardware cursor.
	SetCursorPos(x, y int)

	// PollEvent blocks for the next input event. A nil return means the
	// backend is shutting down and no further events will arrive.
	PollEvent() terminal.Event

	// PostEvent injects an event into the queue. Used by tests and by the
	// runtime to wake the poller on shutdown.
	PostEvent(ev terminal.Event) error

	// Beep rings the terminal bell.
	Beep()

	// Sync forces a full repaint on the next Show.
	Sync()
}
