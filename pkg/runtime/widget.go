// Package runtime provides the widget runtime for loom. It implements a
// constraint-based two-pass layout, pointer and keyboard routing with
// bubbling, throttled invalidation, and a modal layer stack.
package runtime

// Constraints define the min/max space available to a widget during measure.
type Constraints struct {
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int
}

// Tight returns constraints that force an exact size.
func Tight(w, h int) Constraints {
	return Constraints{
		MinWidth:  w,
		MaxWidth:  w,
		MinHeight: h,
		MaxHeight: h,
	}
}

// TightWidth returns constraints with exact width, flexible height.
func TightWidth(w int) Constraints {
	return Constraints{
		MinWidth:  w,
		MaxWidth:  w,
		MinHeight: 0,
		MaxHeight: maxInt,
	}
}

// TightHeight returns constraints with flexible width, exact height.
func TightHeight(h int) Constraints {
	return Constraints{
		MinWidth:  0,
		MaxWidth:  maxInt,
		MinHeight: h,
		MaxHeight: h,
	}
}

// Loose returns constraints with only max bounds (min = 0).
func Loose(w, h int) Constraints {
	return Constraints{
		MinWidth:  0,
		MaxWidth:  w,
		MinHeight: 0,
		MaxHeight: h,
	}
}

// Unbounded returns constraints with no limits.
func Unbounded() Constraints {
	return Constraints{
		MinWidth:  0,
		MaxWidth:  maxInt,
		MinHeight: 0,
		MaxHeight: maxInt,
	}
}

// Constrain clamps a size to fit within these constraints.
func (c Constraints) Constrain(s Size) Size {
	return Size{
		Width:  clamp(s.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(s.Height, c.MinHeight, c.MaxHeight),
	}
}

// IsTight returns true if min equals max for both dimensions.
func (c Constraints) IsTight() bool {
	return c.MinWidth == c.MaxWidth && c.MinHeight == c.MaxHeight
}

// BoundedWidth returns true if the width has a finite upper limit.
func (c Constraints) BoundedWidth() bool {
	return c.MaxWidth < maxInt
}

// BoundedHeight returns true if the height has a finite upper limit.
func (c Constraints) BoundedHeight() bool {
	return c.MaxHeight < maxInt
}

// MaxSize returns the maximum size allowed by constraints.
func (c Constraints) MaxSize() Size {
	return Size{Width: c.MaxWidth, Height: c.MaxHeight}
}

// MinSize returns the minimum size required by constraints.
func (c Constraints) MinSize() Size {
	return Size{Width: c.MinWidth, Height: c.MinHeight}
}

// Size is a widget's measured dimensions.
type Size struct {
	Width, Height int
}

// Zero returns true if both dimensions are zero.
func (s Size) Zero() bool {
	return s.Width == 0 && s.Height == 0
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// ZeroRect is the zero value rect.
var ZeroRect = Rect{}

// NewRect creates a rect from position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Size returns the rect's dimensions as a Size.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains returns true if the point is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects returns true if the two rects overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Intersection returns the overlapping area of two rects.
func (r Rect) Intersection(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x || y2 <= y {
		return ZeroRect
	}
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inset returns a rect shrunk by the given amounts.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  max(0, r.Width-left-right),
		Height: max(0, r.Height-top-bottom),
	}
}

// Translate returns the rect shifted by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Measurable is the measure pass of layout. Measure must be pure: calling it
// twice with the same constraints returns the same size and mutates nothing
// observable.
type Measurable interface {
	Measure(constraints Constraints) Size
}

// Arrangeable is the arrange pass of layout. Layout assigns final absolute
// bounds; the widget stores them for Render and hit testing.
type Arrangeable interface {
	Layout(bounds Rect)
	Bounds() Rect
}

// Paintable draws the widget into a render context.
type Paintable interface {
	Render(ctx RenderContext)
}

// EventHandling processes messages routed by the window.
type EventHandling interface {
	HandleMessage(msg Message) HandleResult
}

// Widget is the full interface all UI components implement. Embed
// widgets.Base to get the tree plumbing for free.
type Widget interface {
	Measurable
	Arrangeable
	Paintable
	EventHandling

	// ID returns a stable identifier for the widget's lifetime.
	ID() string

	// Visible reports whether the widget participates in painting and
	// hit testing.
	Visible() bool

	// Parent returns the containing widget, or nil at a layer root.
	Parent() Widget

	// SetParent is called by containers when adopting or releasing a child.
	SetParent(parent Widget)

	// Mount attaches the widget to a window. Called by the window when the
	// widget enters a mounted tree.
	Mount(win *Window)

	// Unmount detaches the widget, clearing its window and parent refs.
	Unmount()
}

// Focusable extends Widget for widgets that can receive keyboard focus.
type Focusable interface {
	Widget

	// CanFocus returns true if this widget can currently receive focus.
	CanFocus() bool

	// Focus is called when the widget gains focus.
	Focus()

	// Blur is called when the widget loses focus.
	Blur()

	// IsFocused returns true if this widget currently has focus.
	IsFocused() bool
}

// ParentWidget is implemented by containers. The window walks ChildWidgets
// for mounting, hit testing, and tick broadcast. Children are returned in
// paint order: later children paint on top.
type ParentWidget interface {
	ChildWidgets() []Widget
}

// HitTester overrides the default recursive hit test. Widgets that clip or
// transform their children implement this; the point is already known to be
// inside the widget's bounds when it is called.
type HitTester interface {
	HitTest(x, y int) Widget
}

// CacheHolder is implemented by widgets that keep derived render state.
// The window clears caches on theme change so stale styling cannot survive
// a swap.
type CacheHolder interface {
	ClearCaches()
}

// HitTest returns the deepest visible widget under the point, preferring
// children painted later. Returns nil if the point misses w entirely.
func HitTest(w Widget, x, y int) Widget {
	if w == nil || !w.Visible() || !w.Bounds().Contains(x, y) {
		return nil
	}
	if ht, ok := w.(HitTester); ok {
		return ht.HitTest(x, y)
	}
	if pw, ok := w.(ParentWidget); ok {
		children := pw.ChildWidgets()
		for i := len(children) - 1; i >= 0; i-- {
			if hit := HitTest(children[i], x, y); hit != nil {
				return hit
			}
		}
	}
	return w
}

// HandleResult is returned from HandleMessage.
type HandleResult struct {
	Handled  bool      // Was the message consumed?
	Commands []Command // Commands to send to parent/app
}

// Handled returns a result indicating the message was consumed.
func Handled() HandleResult {
	return HandleResult{Handled: true}
}

// Unhandled returns a result indicating the message was not consumed.
func Unhandled() HandleResult {
	return HandleResult{Handled: false}
}

// WithCommand returns a handled result with a single command.
func WithCommand(cmd Command) HandleResult {
	return HandleResult{Handled: true, Commands: []Command{cmd}}
}

// WithCommands returns a handled result with multiple commands.
func WithCommands(cmds ...Command) HandleResult {
	return HandleResult{Handled: true, Commands: cmds}
}

// Helper functions

const maxInt = int(^uint(0) >> 1)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
