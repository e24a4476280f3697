// Package widgets provides reusable widgets for loom terminal UIs.
package widgets

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/loomtui/loom/pkg/logging"
	"github.com/loomtui/loom/pkg/runtime"
)

// panicLogger reports event handler panics. A misbehaving handler must not
// take down the routing pass or starve later handlers.
var panicLogger = logging.NewLogger("widgets", slog.LevelWarn)

// SetLogger replaces the logger used for handler panic reports. Call it once
// at startup.
func SetLogger(l *logging.Logger) {
	panicLogger = l
}

// hoverSpeed is how fast the hover highlight animates, in progress per
// second. At 8.0 a full fade takes 125ms.
const hoverSpeed = 8.0

// Base provides the tree plumbing, event registry, and interaction state
// every widget needs. Embed it and override what the widget cares about.
//
// The zero value is ready to use: visible, unfocused, and unparented.
type Base struct {
	id      string
	style   Style
	bounds  runtime.Rect
	hidden  bool
	parent  runtime.Widget
	window  *runtime.Window
	mounted bool
	focused bool

	handlers handlerRegistry

	hovered       bool
	pressed       bool
	hoverProgress float64
}

// ID returns the widget's identifier, generating one on first use.
func (b *Base) ID() string {
	if b.id == "" {
		b.id = uuid.NewString()
	}
	return b.id
}

// SetID assigns a stable identifier, replacing the generated one.
func (b *Base) SetID(id string) {
	b.id = id
}

// Style returns the widget's box-model record.
func (b *Base) Style() Style {
	return b.style
}

// SetStyle replaces the box-model record and schedules a fresh layout.
func (b *Base) SetStyle(st Style) {
	b.style = st
	if b.window != nil {
		b.window.RequestLayout()
	}
}

// Layout stores the assigned bounds, inset by the style's margin. The
// margin stays outside everything the widget paints or hit-tests.
func (b *Base) Layout(bounds runtime.Rect) {
	b.bounds = b.style.Margin.Apply(bounds)
}

// Bounds returns the widget's assigned bounds.
func (b *Base) Bounds() runtime.Rect {
	return b.bounds
}

// Measure returns the style's size hints, or the smallest allowed size.
// Widgets with content override this.
func (b *Base) Measure(c runtime.Constraints) runtime.Size {
	return b.sizeWithHints(c, func(inner runtime.Constraints) runtime.Size {
		return inner.MinSize()
	})
}

// sizeWithHints wraps content measurement with the style's size hints and
// margin. When both axes are pinned the content is never measured; a single
// pinned axis tightens the content constraints so wrapping sees the final
// extent. The margin is added outside whatever results.
func (b *Base) sizeWithHints(c runtime.Constraints, content func(runtime.Constraints) runtime.Size) runtime.Size {
	st := b.style

	var size runtime.Size
	if st.Width != Auto && st.Height != Auto {
		size = runtime.Size{Width: st.Width, Height: st.Height}
	} else {
		inner := st.Margin.Deflate(c)
		if st.Width != Auto {
			inner.MinWidth, inner.MaxWidth = st.Width, st.Width
		}
		if st.Height != Auto {
			inner.MinHeight, inner.MaxHeight = st.Height, st.Height
		}
		size = content(inner)
		if st.Width != Auto {
			size.Width = st.Width
		}
		if st.Height != Auto {
			size.Height = st.Height
		}
	}

	size.Width = satAdd(size.Width, st.Margin.Horizontal())
	size.Height = satAdd(size.Height, st.Margin.Vertical())
	return c.Constrain(size)
}

// Render draws nothing.
func (b *Base) Render(ctx runtime.RenderContext) {}

// Visible reports whether the widget participates in painting and hit
// testing.
func (b *Base) Visible() bool {
	return !b.hidden
}

// SetVisible shows or hides the widget. A hidden widget keeps its place in
// the tree but is skipped during painting, hit testing, and layout sizing.
func (b *Base) SetVisible(visible bool) {
	if b.hidden == !visible {
		return
	}
	b.hidden = !visible
	if b.window != nil {
		b.window.RequestLayout()
	}
}

// Parent returns the containing widget, or nil at a layer root.
func (b *Base) Parent() runtime.Widget {
	return b.parent
}

// SetParent records the containing widget. Containers call this when
// adopting or releasing a child.
func (b *Base) SetParent(parent runtime.Widget) {
	b.parent = parent
}

// Mount attaches the widget to a window and fires the mount event.
func (b *Base) Mount(win *runtime.Window) {
	b.window = win
	b.mounted = true
	b.emit(Event{Kind: EventMount})
}

// Unmount fires the unmount event, resets interaction state, and clears the
// window reference. The parent reference is cleared by the container that
// removed the widget.
func (b *Base) Unmount() {
	b.emit(Event{Kind: EventUnmount})
	b.hovered = false
	b.pressed = false
	b.hoverProgress = 0
	b.focused = false
	b.mounted = false
	b.window = nil
}

// Window returns the window the widget is mounted in, or nil.
func (b *Base) Window() *runtime.Window {
	return b.window
}

// IsMounted reports whether the widget is attached to a window.
func (b *Base) IsMounted() bool {
	return b.mounted
}

// Invalidate requests a window repaint. Harmless to call while unmounted.
func (b *Base) Invalidate() {
	if b.window != nil {
		b.window.Invalidate()
	}
}

// CanFocus returns false; embed FocusableBase for focusable widgets.
func (b *Base) CanFocus() bool {
	return false
}

// Focus marks the widget as focused and fires the focus event.
func (b *Base) Focus() {
	if b.focused {
		return
	}
	b.focused = true
	b.emit(Event{Kind: EventFocus})
	b.Invalidate()
}

// Blur clears focus and fires the blur event.
func (b *Base) Blur() {
	if !b.focused {
		return
	}
	b.focused = false
	b.emit(Event{Kind: EventBlur})
	b.Invalidate()
}

// IsFocused returns whether the widget is focused.
func (b *Base) IsFocused() bool {
	return b.focused
}

// Hovered reports whether the pointer is over the widget.
func (b *Base) Hovered() bool {
	return b.hovered
}

// HoverProgress returns the animated hover highlight in [0, 1]: 0 resting,
// 1 fully hovered.
func (b *Base) HoverProgress() float64 {
	return b.hoverProgress
}

// On registers a handler for the given event kind. Handlers run in
// registration order; the returned function removes the registration.
func (b *Base) On(kind EventKind, fn Handler) (remove func()) {
	return b.handlers.add(kind, fn)
}

// emit runs the handlers registered for ev's kind.
func (b *Base) emit(ev Event) {
	b.handlers.emit(b.ID(), ev)
}

// HandleMessage implements hover tracking and the hover animation tick. It
// always reports unhandled so messages keep bubbling; widgets that consume
// input override this and fall back to it for everything else.
func (b *Base) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.PointerEnterMsg:
		b.setHovered(true, m.X, m.Y)
	case runtime.PointerLeaveMsg:
		b.setHovered(false, 0, 0)
	case runtime.TickMsg:
		b.animate(m.Delta)
	}
	return runtime.Unhandled()
}

// setHovered fires the hover event on each transition. The window already
// guarantees one enter and one leave per target change; the guard here keeps
// the state consistent if a widget forwards messages manually.
func (b *Base) setHovered(hovered bool, x, y int) {
	if b.hovered == hovered {
		return
	}
	b.hovered = hovered
	b.emit(Event{Kind: EventHover, X: x, Y: y, Entered: hovered})
	b.Invalidate()
}

// animate advances the hover highlight toward its resting or hovered target
// and keeps the window invalidated while it is still moving.
func (b *Base) animate(delta time.Duration) {
	target := 0.0
	if b.hovered {
		target = 1.0
	}
	if b.hoverProgress == target {
		return
	}
	step := hoverSpeed * delta.Seconds()
	if step <= 0 {
		return
	}
	if b.hoverProgress < target {
		b.hoverProgress = min(b.hoverProgress+step, target)
	} else {
		b.hoverProgress = max(b.hoverProgress-step, target)
	}
	b.Invalidate()
}

// FocusableBase extends Base for widgets that accept keyboard focus.
type FocusableBase struct {
	Base
}

// CanFocus returns true for focusable widgets.
func (f *FocusableBase) CanFocus() bool {
	return true
}
