package widgets

import (
	"strings"

	"github.com/loomtui/loom/pkg/runtime"
	"github.com/loomtui/loom/pkg/terminal"
)

// Input is a single-line text field with caret editing. Editing operates on
// runes so multibyte text keeps its boundaries, and the visible window slides
// to keep the caret on screen.
type Input struct {
	FocusableBase

	text        []rune
	caret       int
	scrollCells int
	placeholder string
	measurer    runtime.TextMeasurer

	onSubmit func(text string)
	onChange func(text string)
}

// NewInput creates an empty input widget.
func NewInput() *Input {
	return &Input{
		measurer: runtime.DefaultMeasurer,
	}
}

// SetPlaceholder sets the hint shown while the input is empty and unfocused.
func (in *Input) SetPlaceholder(text string) {
	in.placeholder = text
	in.Invalidate()
}

// OnSubmit sets a convenience callback for Enter, alongside any handlers
// registered with On(EventSubmit, ...).
func (in *Input) OnSubmit(fn func(text string)) {
	in.onSubmit = fn
}

// OnChange sets a convenience callback for edits, alongside any handlers
// registered with On(EventChange, ...).
func (in *Input) OnChange(fn func(text string)) {
	in.onChange = fn
}

// Text returns the current input text.
func (in *Input) Text() string {
	return string(in.text)
}

// SetText replaces the text and moves the caret to the end.
func (in *Input) SetText(text string) {
	in.text = []rune(text)
	in.caret = len(in.text)
	in.Invalidate()
}

// Clear empties the input.
func (in *Input) Clear() {
	in.text = in.text[:0]
	in.caret = 0
	in.scrollCells = 0
	in.Invalidate()
}

// Caret returns the caret position in runes from the start.
func (in *Input) Caret() int {
	return in.caret
}

// Measure claims the full available width at one row.
func (in *Input) Measure(c runtime.Constraints) runtime.Size {
	return in.sizeWithHints(c, func(inner runtime.Constraints) runtime.Size {
		return runtime.Size{Width: inner.MaxWidth, Height: 1}
	})
}

// Render draws the text window around the caret, or the placeholder when
// empty. The caret cell is drawn reversed while focused.
func (in *Input) Render(ctx runtime.RenderContext) {
	bounds := in.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	style := ctx.Theme.Input
	if in.IsFocused() {
		style = ctx.Theme.InputFocused
	}
	ctx.Surface.Fill(bounds, ' ', style)

	if len(in.text) == 0 && !in.IsFocused() && in.placeholder != "" {
		hint := truncateToWidth(in.placeholder, bounds.Width, in.measurer)
		drawClipped(ctx.Surface, bounds.X, bounds.Y, hint, bounds.Width, ctx.Theme.InputPlaceholder, in.measurer)
		return
	}

	in.scrollToCaret(bounds.Width)

	// Walk runes, skipping cells left of the window and stopping at its
	// right edge.
	x := bounds.X
	cell := 0
	for _, r := range in.text {
		rw := in.measurer.RuneWidth(r)
		if cell+rw > in.scrollCells {
			if cell < in.scrollCells {
				// Wide rune straddling the left edge; skip it whole.
				cell += rw
				continue
			}
			if x+rw > bounds.X+bounds.Width {
				break
			}
			ctx.Surface.Set(x, bounds.Y, r, style)
			x += rw
		}
		cell += rw
	}

	if in.IsFocused() {
		caretX := bounds.X + in.prefixWidth(in.caret) - in.scrollCells
		if caretX >= bounds.X && caretX < bounds.X+bounds.Width {
			ch := ' '
			if in.caret < len(in.text) {
				ch = in.text[in.caret]
			}
			ctx.Surface.Set(caretX, bounds.Y, ch, style.Reverse(true))
		}
	}
}

// prefixWidth returns the cell width of the first n runes.
func (in *Input) prefixWidth(n int) int {
	w := 0
	for i := 0; i < n && i < len(in.text); i++ {
		w += in.measurer.RuneWidth(in.text[i])
	}
	return w
}

// scrollToCaret slides the visible window so the caret stays inside it.
func (in *Input) scrollToCaret(width int) {
	if width <= 0 {
		return
	}
	caretCell := in.prefixWidth(in.caret)
	if caretCell < in.scrollCells {
		in.scrollCells = caretCell
	}
	if caretCell >= in.scrollCells+width {
		in.scrollCells = caretCell - width + 1
	}
}

// HandleMessage edits on keys, pastes text, and places the caret on click.
func (in *Input) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		if !in.IsFocused() {
			return runtime.Unhandled()
		}
		return in.handleKey(m)

	case runtime.PasteMsg:
		if !in.IsFocused() {
			return runtime.Unhandled()
		}
		in.insert(strings.ReplaceAll(m.Text, "\n", " "))
		return runtime.Handled()

	case runtime.MouseMsg:
		if m.Action == terminal.MousePress && m.Button == terminal.MouseLeft {
			in.caret = in.caretForCell(m.X - in.bounds.X + in.scrollCells)
			in.Invalidate()
			return runtime.Handled()
		}
		return runtime.Unhandled()
	}

	return in.Base.HandleMessage(msg)
}

func (in *Input) handleKey(m runtime.KeyMsg) runtime.HandleResult {
	switch m.Key {
	case terminal.KeyEnter:
		text := string(in.text)
		in.emit(Event{Kind: EventSubmit, Value: text})
		if in.onSubmit != nil {
			in.onSubmit(text)
		}
		return runtime.WithCommand(runtime.Submit{Text: text})

	case terminal.KeyBackspace:
		if in.caret > 0 {
			in.text = append(in.text[:in.caret-1], in.text[in.caret:]...)
			in.caret--
			in.notifyChange()
		}
		return runtime.Handled()

	case terminal.KeyDelete:
		if in.caret < len(in.text) {
			in.text = append(in.text[:in.caret], in.text[in.caret+1:]...)
			in.notifyChange()
		}
		return runtime.Handled()

	case terminal.KeyLeft:
		if m.Ctrl {
			in.caret = in.wordLeft()
		} else if in.caret > 0 {
			in.caret--
		}
		in.Invalidate()
		return runtime.Handled()

	case terminal.KeyRight:
		if m.Ctrl {
			in.caret = in.wordRight()
		} else if in.caret < len(in.text) {
			in.caret++
		}
		in.Invalidate()
		return runtime.Handled()

	case terminal.KeyHome:
		in.caret = 0
		in.Invalidate()
		return runtime.Handled()

	case terminal.KeyEnd:
		in.caret = len(in.text)
		in.Invalidate()
		return runtime.Handled()

	case terminal.KeyRune:
		in.insert(string(m.Rune))
		return runtime.Handled()

	case terminal.KeyTab:
		if m.Shift {
			return runtime.WithCommand(runtime.FocusPrev{})
		}
		return runtime.WithCommand(runtime.FocusNext{})

	case terminal.KeyEscape:
		return runtime.WithCommand(runtime.Cancel{})
	}

	return runtime.Unhandled()
}

// insert places text at the caret.
func (in *Input) insert(text string) {
	if text == "" {
		return
	}
	runes := []rune(text)
	out := make([]rune, 0, len(in.text)+len(runes))
	out = append(out, in.text[:in.caret]...)
	out = append(out, runes...)
	out = append(out, in.text[in.caret:]...)
	in.text = out
	in.caret += len(runes)
	in.notifyChange()
}

func (in *Input) notifyChange() {
	text := string(in.text)
	in.emit(Event{Kind: EventChange, Value: text})
	if in.onChange != nil {
		in.onChange(text)
	}
	in.Invalidate()
}

// caretForCell maps a cell column to the nearest caret position.
func (in *Input) caretForCell(cell int) int {
	if cell <= 0 {
		return 0
	}
	w := 0
	for i, r := range in.text {
		rw := in.measurer.RuneWidth(r)
		if w+rw > cell {
			return i
		}
		w += rw
	}
	return len(in.text)
}

func (in *Input) wordLeft() int {
	pos := in.caret
	for pos > 0 && in.text[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && in.text[pos-1] != ' ' {
		pos--
	}
	return pos
}

func (in *Input) wordRight() int {
	pos := in.caret
	for pos < len(in.text) && in.text[pos] != ' ' {
		pos++
	}
	for pos < len(in.text) && in.text[pos] == ' ' {
		pos++
	}
	return pos
}
