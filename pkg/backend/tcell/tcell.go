// Package tcell implements backend.Backend on top of gdamore/tcell.
package tcell

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/loomtui/loom/pkg/backend"
	"github.com/loomtui/loom/pkg/terminal"
)

// Options controls which terminal capabilities Init enables.
type Options struct {
	Mouse          bool
	BracketedPaste bool
}

// DefaultOptions enables every capability.
func DefaultOptions() Options {
	return Options{Mouse: true, BracketedPaste: true}
}

// Backend drives a real terminal through a tcell.Screen.
type Backend struct {
	screen tcell.Screen
	opts   Options

	// Bracketed paste accumulation
	inPaste     bool
	pasteBuffer strings.Builder

	// Previous button mask, used to classify mouse events into
	// press/release/move transitions. tcell only reports current state.
	lastButtons tcell.ButtonMask
}

// New creates a backend on the process terminal.
func New() (*Backend, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a backend on the process terminal with specific
// capabilities.
func NewWithOptions(opts Options) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen, opts: opts}, nil
}

// NewWithScreen wraps an existing screen. The sim backend uses this to share
// the event conversion logic with a tcell SimulationScreen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, opts: DefaultOptions()}
}

// Init enters the alternate screen and enables the configured capabilities.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	if b.opts.Mouse {
		b.screen.EnableMouse()
	}
	if b.opts.BracketedPaste {
		b.screen.EnablePaste()
	}
	b.screen.HideCursor()
	return nil
}

// Fini restores the terminal.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent writes one cell.
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show flushes buffered writes.
func (b *Backend) Show() {
	b.screen.Show()
}

// Clear blanks the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the hardware cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// ShowCursor shows the hardware cursor at its last position.
func (b *Backend) ShowCursor() {
	// tcell surfaces the cursor through SetCursorPos.
}

// SetCursorPos moves and shows the hardware cursor.
func (b *Backend) SetCursorPos(x, y int) {
	b.screen.ShowCursor(x, y)
}

// PollEvent blocks for the next event, folding bracketed paste sequences
// into single PasteEvents.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}

		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if converted := b.convertEvent(ev); converted != nil {
			return converted
		}
	}
}

// PostEvent injects an event into the tcell queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	tev := reverseConvertEvent(ev)
	if tev != nil {
		return b.screen.PostEvent(tev)
	}
	return nil
}

// Beep rings the bell.
func (b *Backend) Beep() {
	b.screen.Beep()
}

// Sync forces a full repaint on next Show.
func (b *Backend) Sync() {
	b.screen.Sync()
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	style := tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg))

	if attrs&backend.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&backend.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if attrs&backend.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&backend.AttrDim != 0 {
		style = style.Dim(true)
	}
	if attrs&backend.AttrBlink != 0 {
		style = style.Blink(true)
	}
	if attrs&backend.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if attrs&backend.AttrStrikeThrough != 0 {
		style = style.StrikeThrough(true)
	}

	return style
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

func (b *Backend) convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return terminal.KeyEvent{
			Key:   convertKey(e.Key()),
			Rune:  e.Rune(),
			Alt:   e.Modifiers()&tcell.ModAlt != 0,
			Ctrl:  e.Modifiers()&tcell.ModCtrl != 0,
			Shift: e.Modifiers()&tcell.ModShift != 0,
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		return b.convertMouse(e)
	default:
		return nil
	}
}

const heldButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// convertMouse classifies the event against the previous button mask.
// Wheel notches are instantaneous presses; button bit transitions become
// press/release; everything else is motion.
func (b *Backend) convertMouse(e *tcell.EventMouse) terminal.Event {
	x, y := e.Position()
	mods := e.Modifiers()
	buttons := e.Buttons()

	mouse := terminal.MouseEvent{
		X:     x,
		Y:     y,
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
	}

	if buttons&tcell.WheelUp != 0 {
		mouse.Button = terminal.MouseWheelUp
		mouse.Action = terminal.MousePress
		return mouse
	}
	if buttons&tcell.WheelDown != 0 {
		mouse.Button = terminal.MouseWheelDown
		mouse.Action = terminal.MousePress
		return mouse
	}

	held := buttons & heldButtons
	pressed := held &^ b.lastButtons
	released := b.lastButtons &^ held
	b.lastButtons = held

	switch {
	case pressed != 0:
		mouse.Button = pickButton(pressed)
		mouse.Action = terminal.MousePress
	case released != 0:
		mouse.Button = pickButton(released)
		mouse.Action = terminal.MouseRelease
	default:
		mouse.Button = pickButton(held)
		mouse.Action = terminal.MouseMove
	}
	return mouse
}

func pickButton(mask tcell.ButtonMask) terminal.MouseButton {
	switch {
	case mask&tcell.Button1 != 0:
		return terminal.MouseLeft
	case mask&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case mask&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

func convertKey(k tcell.Key) terminal.Key {
	switch k {
	case tcell.KeyRune:
		return terminal.KeyRune
	case tcell.KeyUp:
		return terminal.KeyUp
	case tcell.KeyDown:
		return terminal.KeyDown
	case tcell.KeyRight:
		return terminal.KeyRight
	case tcell.KeyLeft:
		return terminal.KeyLeft
	case tcell.KeyPgUp:
		return terminal.KeyPageUp
	case tcell.KeyPgDn:
		return terminal.KeyPageDown
	case tcell.KeyHome:
		return terminal.KeyHome
	case tcell.KeyEnd:
		return terminal.KeyEnd
	case tcell.KeyInsert:
		return terminal.KeyInsert
	case tcell.KeyDelete:
		return terminal.KeyDelete
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return terminal.KeyBackspace
	case tcell.KeyTab:
		return terminal.KeyTab
	case tcell.KeyEnter:
		return terminal.KeyEnter
	case tcell.KeyEscape:
		return terminal.KeyEscape
	case tcell.KeyCtrlC:
		return terminal.KeyCtrlC
	case tcell.KeyF1:
		return terminal.KeyF1
	case tcell.KeyF2:
		return terminal.KeyF2
	case tcell.KeyF3:
		return terminal.KeyF3
	case tcell.KeyF4:
		return terminal.KeyF4
	case tcell.KeyF5:
		return terminal.KeyF5
	case tcell.KeyF6:
		return terminal.KeyF6
	case tcell.KeyF7:
		return terminal.KeyF7
	case tcell.KeyF8:
		return terminal.KeyF8
	case tcell.KeyF9:
		return terminal.KeyF9
	case tcell.KeyF10:
		return terminal.KeyF10
	case tcell.KeyF11:
		return terminal.KeyF11
	case tcell.KeyF12:
		return terminal.KeyF12
	default:
		return terminal.KeyNone
	}
}

func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	default:
		return nil
	}
}

var _ backend.Backend = (*Backend)(nil)
