package widgets

import (
	"github.com/loomtui/loom/pkg/runtime"
	"github.com/loomtui/loom/pkg/terminal"
)

// Button is a clickable, focusable push button. The hover highlight blends
// between the theme's resting and hover styles as the animated hover
// progress moves, so the transition fades instead of snapping.
type Button struct {
	FocusableBase
	label    string
	submit   bool
	onClick  func()
	measurer runtime.TextMeasurer
}

// NewButton creates a button with the given label.
func NewButton(label string) *Button {
	return &Button{
		label:    label,
		measurer: runtime.DefaultMeasurer,
	}
}

// SetLabel updates the button label.
func (b *Button) SetLabel(label string) {
	if b.label == label {
		return
	}
	b.label = label
	if b.window != nil {
		b.window.RequestLayout()
	}
}

// Label returns the button label.
func (b *Button) Label() string {
	return b.label
}

// OnClick sets a convenience callback invoked on click, alongside any
// handlers registered with On(EventClick, ...).
func (b *Button) OnClick(fn func()) {
	b.onClick = fn
}

// SubmitOnClick makes clicks also emit a Submit command carrying the label,
// so the app hears about it without registering a handler.
func (b *Button) SubmitOnClick(submit bool) {
	b.submit = submit
}

// Measure returns the label width plus two cells of padding on each side.
func (b *Button) Measure(c runtime.Constraints) runtime.Size {
	return b.sizeWithHints(c, func(runtime.Constraints) runtime.Size {
		return runtime.Size{Width: b.measurer.StringWidth(b.label) + 4, Height: 1}
	})
}

// Render fills the button and centers the label. Pressed wins over hover;
// otherwise the style is the resting style blended toward the hover style
// by the animation progress.
func (b *Button) Render(ctx runtime.RenderContext) {
	bounds := b.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	base := ctx.Theme.Button
	if b.IsFocused() {
		base = ctx.Theme.ButtonFocused
	}

	style := base
	if b.pressed {
		style = ctx.Theme.ButtonPressed
	} else if p := b.HoverProgress(); p > 0 {
		style = base.Blend(ctx.Theme.ButtonHover, p)
	}

	ctx.Surface.Fill(bounds, ' ', style)

	label := b.label
	w := b.measurer.StringWidth(label)
	if w > bounds.Width {
		label = truncateToWidth(label, bounds.Width, b.measurer)
		w = b.measurer.StringWidth(label)
	}
	x := bounds.X + max(0, (bounds.Width-w)/2)
	y := bounds.Y + bounds.Height/2
	drawClipped(ctx.Surface, x, y, label, bounds.Width, style, b.measurer)
}

// HandleMessage implements the press-then-release click model: the press
// captures the pointer, and the click fires only if the release lands back
// inside the button. Enter and Space click a focused button.
func (b *Button) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.MouseMsg:
		return b.handleMouse(m)

	case runtime.KeyMsg:
		if !b.IsFocused() {
			return runtime.Unhandled()
		}
		if m.Key == terminal.KeyEnter || (m.Key == terminal.KeyRune && m.Rune == ' ') {
			return b.click(b.bounds.X+b.bounds.Width/2, b.bounds.Y+b.bounds.Height/2)
		}
		return runtime.Unhandled()
	}

	return b.Base.HandleMessage(msg)
}

func (b *Button) handleMouse(m runtime.MouseMsg) runtime.HandleResult {
	switch {
	case m.Action == terminal.MousePress && m.Button == terminal.MouseLeft:
		b.pressed = true
		if b.window != nil {
			b.window.CapturePointer(b)
		}
		b.Invalidate()
		return runtime.Handled()

	case m.Action == terminal.MouseMove && b.isCaptured():
		// While captured, track whether a release here would still count.
		inside := b.bounds.Contains(m.X, m.Y)
		if b.pressed != inside {
			b.pressed = inside
			b.Invalidate()
		}
		return runtime.Handled()

	case m.Action == terminal.MouseRelease && m.Button == terminal.MouseLeft:
		wasPressed := b.pressed
		b.pressed = false
		if b.isCaptured() {
			b.window.ReleasePointer()
		}
		b.Invalidate()
		if wasPressed && b.bounds.Contains(m.X, m.Y) {
			return b.click(m.X, m.Y)
		}
		return runtime.Handled()
	}

	return runtime.Unhandled()
}

func (b *Button) isCaptured() bool {
	return b.window != nil && b.window.Captured() == runtime.Widget(b)
}

// click fires the click event and callback.
func (b *Button) click(x, y int) runtime.HandleResult {
	b.emit(Event{Kind: EventClick, X: x, Y: y})
	if b.onClick != nil {
		b.onClick()
	}
	b.Invalidate()
	if b.submit {
		return runtime.WithCommand(runtime.Submit{Text: b.label})
	}
	return runtime.Handled()
}

// Unmount drops any in-flight press along with the base state.
func (b *Button) Unmount() {
	b.pressed = false
	b.Base.Unmount()
}
