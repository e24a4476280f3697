// Package sim provides a simulation backend for testing.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/loomtui/loom/pkg/backend"
	"github.com/loomtui/loom/pkg/backend/tcell"
	"github.com/loomtui/loom/pkg/terminal"
)

// Backend is a testable backend using tcell's simulation screen.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
	}
}

// Resize changes the simulation screen size.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.SetSize(width, height)
}

// InjectKey injects a key event into the simulation.
func (s *Backend) InjectKey(key terminal.Key, r rune) {
	s.screen.InjectKey(reverseKey(key), r, tcellv2.ModNone)
}

// InjectKeyRune injects a regular character keypress.
func (s *Backend) InjectKeyRune(r rune) {
	s.InjectKey(terminal.KeyRune, r)
}

// InjectKeyString injects a string as a sequence of key events.
func (s *Backend) InjectKeyString(str string) {
	for _, r := range str {
		s.InjectKeyRune(r)
	}
}

// InjectMouse injects a mouse transition at the given cell. For Press and
// Move the button mask carries the named button, so a Move with MouseLeft
// reads as a drag; Release always clears the mask.
func (s *Backend) InjectMouse(x, y int, button terminal.MouseButton, action terminal.MouseAction) {
	mask := reverseButton(button)
	if action == terminal.MouseRelease {
		mask = tcellv2.ButtonNone
	}
	s.screen.InjectMouse(x, y, mask, tcellv2.ModNone)
}

// InjectClick injects a left press and release at the given cell.
func (s *Backend) InjectClick(x, y int) {
	s.InjectMouse(x, y, terminal.MouseLeft, terminal.MousePress)
	s.InjectMouse(x, y, terminal.MouseLeft, terminal.MouseRelease)
}

// InjectWheel injects one wheel notch at the given cell.
func (s *Backend) InjectWheel(x, y int, up bool) {
	button := terminal.MouseWheelDown
	if up {
		button = terminal.MouseWheelUp
	}
	s.InjectMouse(x, y, button, terminal.MousePress)
}

// InjectResize injects a resize event.
func (s *Backend) InjectResize(width, height int) {
	s.mu.Lock()
	s.screen.SetSize(width, height)
	s.mu.Unlock()
	s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture captures the current screen content as a string.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	var lines []string

	for y := 0; y < h; y++ {
		var line strings.Builder
		for x := 0; x < w; x++ {
			mainc, comb, _, _ := s.screen.GetContent(x, y)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
		}
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// CaptureCell returns the content and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (mainc rune, comb []rune, style backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, c, tcStyle, _ := s.screen.GetContent(x, y)
	return m, c, convertTcellStyle(tcStyle)
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, _, _, _ := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// FindText searches for text on the screen and returns its position.
func (s *Backend) FindText(text string) (x, y int) {
	capture := s.Capture()
	lines := strings.Split(capture, "\n")

	for row, line := range lines {
		if col := strings.Index(line, text); col >= 0 {
			return col, row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, y := s.FindText(text)
	return x >= 0 && y >= 0
}

func reverseKey(k terminal.Key) tcellv2.Key {
	switch k {
	case terminal.KeyRune:
		return tcellv2.KeyRune
	case terminal.KeyUp:
		return tcellv2.KeyUp
	case terminal.KeyDown:
		return tcellv2.KeyDown
	case terminal.KeyRight:
		return tcellv2.KeyRight
	case terminal.KeyLeft:
		return tcellv2.KeyLeft
	case terminal.KeyPageUp:
		return tcellv2.KeyPgUp
	case terminal.KeyPageDown:
		return tcellv2.KeyPgDn
	case terminal.KeyHome:
		return tcellv2.KeyHome
	case terminal.KeyEnd:
		return tcellv2.KeyEnd
	case terminal.KeyInsert:
		return tcellv2.KeyInsert
	case terminal.KeyDelete:
		return tcellv2.KeyDelete
	case terminal.KeyBackspace:
		return tcellv2.KeyBackspace2
	case terminal.KeyTab:
		return tcellv2.KeyTab
	case terminal.KeyEnter:
		return tcellv2.KeyEnter
	case terminal.KeyEscape:
		return tcellv2.KeyEscape
	case terminal.KeyCtrlC:
		return tcellv2.KeyCtrlC
	case terminal.KeyF1:
		return tcellv2.KeyF1
	case terminal.KeyF2:
		return tcellv2.KeyF2
	case terminal.KeyF3:
		return tcellv2.KeyF3
	case terminal.KeyF4:
		return tcellv2.KeyF4
	case terminal.KeyF5:
		return tcellv2.KeyF5
	case terminal.KeyF6:
		return tcellv2.KeyF6
	case terminal.KeyF7:
		return tcellv2.KeyF7
	case terminal.KeyF8:
		return tcellv2.KeyF8
	case terminal.KeyF9:
		return tcellv2.KeyF9
	case terminal.KeyF10:
		return tcellv2.KeyF10
	case terminal.KeyF11:
		return tcellv2.KeyF11
	case terminal.KeyF12:
		return tcellv2.KeyF12
	default:
		return tcellv2.KeyNUL
	}
}

func reverseButton(b terminal.MouseButton) tcellv2.ButtonMask {
	switch b {
	case terminal.MouseLeft:
		return tcellv2.Button1
	case terminal.MouseMiddle:
		return tcellv2.Button2
	case terminal.MouseRight:
		return tcellv2.Button3
	case terminal.MouseWheelUp:
		return tcellv2.WheelUp
	case terminal.MouseWheelDown:
		return tcellv2.WheelDown
	default:
		return tcellv2.ButtonNone
	}
}

// convertTcellStyle converts tcellv2.Style to backend.Style.
func convertTcellStyle(ts tcellv2.Style) backend.Style {
	fg, bg, attrs := ts.Decompose()
	style := backend.DefaultStyle().
		Foreground(convertTcellColor(fg)).
		Background(convertTcellColor(bg))

	if attrs&tcellv2.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&tcellv2.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if attrs&tcellv2.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&tcellv2.AttrDim != 0 {
		style = style.Dim(true)
	}
	if attrs&tcellv2.AttrBlink != 0 {
		style = style.Blink(true)
	}
	if attrs&tcellv2.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if attrs&tcellv2.AttrStrikeThrough != 0 {
		style = style.StrikeThrough(true)
	}

	return style
}

// convertTcellColor converts tcellv2.Color to backend.Color.
func convertTcellColor(tc tcellv2.Color) backend.Color {
	if tc == tcellv2.ColorDefault {
		return backend.ColorDefault
	}
	if tc&tcellv2.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return backend.ColorRGB(uint8(r), uint8(g), uint8(b))
	}
	return backend.Color(tc & 0xFF)
}

// Ensure Backend implements backend.Backend
var _ backend.Backend = (*Backend)(nil)
