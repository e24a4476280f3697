package widgets

import (
	"github.com/loomtui/loom/pkg/runtime"
	"github.com/loomtui/loom/pkg/terminal"
	"github.com/loomtui/loom/pkg/theme"
)

// wheelStep is how many rows one wheel notch scrolls.
const wheelStep = 3

// minThumbExtent keeps the thumb grabbable no matter how long the content
// gets.
const minThumbExtent = 1

// Scroll shows one child through a vertical viewport. When the child
// overflows, a one-column scrollbar appears on the right edge with a thumb
// sized proportionally to the visible fraction; the thumb drags, the wheel
// scrolls by rows, and clicks on the track page the viewport.
type Scroll struct {
	Base
	child         runtime.Widget
	offset        int
	contentHeight int
	childWidth    int

	dragging        bool
	dragStartY      int
	dragStartOffset int
}

// NewScroll creates a scroll viewport around child.
func NewScroll(child runtime.Widget) *Scroll {
	s := &Scroll{}
	if child != nil {
		s.SetChild(child)
	}
	return s
}

// SetChild replaces the scrolled child, unmounting the previous one.
func (s *Scroll) SetChild(child runtime.Widget) {
	if s.child != nil {
		old := s.child
		s.child = nil
		releaseChild(s.window, old)
	}
	if child == nil {
		return
	}
	adoptChild(s, child)
	s.child = child
	if s.window != nil {
		s.window.MountSubtree(child)
	}
}

// Child returns the scrolled widget, or nil.
func (s *Scroll) Child() runtime.Widget {
	return s.child
}

// ChildWidgets returns the scrolled child.
func (s *Scroll) ChildWidgets() []runtime.Widget {
	if s.child == nil {
		return nil
	}
	return []runtime.Widget{s.child}
}

// Offset returns the current scroll offset in rows from the top.
func (s *Scroll) Offset() int {
	return s.offset
}

// ContentHeight returns the child's laid-out height.
func (s *Scroll) ContentHeight() int {
	return s.contentHeight
}

// MaxOffset returns the largest valid scroll offset: zero whenever the
// content fits the viewport.
func (s *Scroll) MaxOffset() int {
	return max(0, s.contentHeight-s.bounds.Height)
}

// SetOffset scrolls to the given row, clamped to the valid range, and
// rearranges the child.
func (s *Scroll) SetOffset(offset int) {
	offset = clamp(offset, 0, s.MaxOffset())
	if offset == s.offset {
		return
	}
	s.offset = offset
	s.arrangeChild()
	s.Invalidate()
}

// ScrollBy scrolls by a row delta, positive toward the bottom.
func (s *Scroll) ScrollBy(rows int) {
	s.SetOffset(s.offset + rows)
}

// ScrollToTop scrolls to the beginning of the content.
func (s *Scroll) ScrollToTop() {
	s.SetOffset(0)
}

// ScrollToBottom scrolls to the end of the content.
func (s *Scroll) ScrollToBottom() {
	s.SetOffset(s.MaxOffset())
}

// Measure fills whatever space it is offered on bounded axes and wraps the
// child on unbounded ones.
func (s *Scroll) Measure(c runtime.Constraints) runtime.Size {
	return s.sizeWithHints(c, s.measureContent)
}

func (s *Scroll) measureContent(c runtime.Constraints) runtime.Size {
	var natural runtime.Size
	if s.child != nil {
		natural = s.child.Measure(runtime.Constraints{MaxWidth: c.MaxWidth, MaxHeight: maxInt})
	}
	w, h := natural.Width, natural.Height
	if c.BoundedWidth() {
		w = c.MaxWidth
	}
	if c.BoundedHeight() {
		h = c.MaxHeight
	}
	return runtime.Size{Width: w, Height: h}
}

// Layout measures the child at full width first, and again one column
// narrower when it overflows so the scrollbar has room. The child is then
// arranged at its full content height, shifted up by the scroll offset.
func (s *Scroll) Layout(bounds runtime.Rect) {
	s.Base.Layout(bounds)
	if s.child == nil {
		s.contentHeight = 0
		s.offset = 0
		return
	}

	viewport := s.Bounds()
	width := viewport.Width
	size := s.child.Measure(runtime.Constraints{MaxWidth: width, MaxHeight: maxInt})
	if size.Height > viewport.Height && width > 1 {
		width--
		size = s.child.Measure(runtime.Constraints{MaxWidth: width, MaxHeight: maxInt})
	}
	s.childWidth = width
	s.contentHeight = size.Height
	s.offset = clamp(s.offset, 0, s.MaxOffset())
	s.arrangeChild()
}

// arrangeChild assigns the child its shifted bounds for the current offset.
func (s *Scroll) arrangeChild() {
	if s.child == nil {
		return
	}
	s.child.Layout(runtime.Rect{
		X:      s.bounds.X,
		Y:      s.bounds.Y - s.offset,
		Width:  s.childWidth,
		Height: max(s.contentHeight, s.bounds.Height),
	})
}

// scrollbarVisible reports whether the content overflows the viewport.
func (s *Scroll) scrollbarVisible() bool {
	return s.contentHeight > s.bounds.Height && s.bounds.Width > 1
}

// thumbMetrics returns the thumb's extent and its offset within the track.
// The extent is the viewport's share of the content, scaled to the track;
// the position maps the scroll offset onto the leftover track space.
func (s *Scroll) thumbMetrics() (extent, pos int) {
	viewport := s.bounds.Height
	if s.contentHeight <= viewport || viewport <= 0 {
		return viewport, 0
	}
	extent = clamp(viewport*viewport/s.contentHeight, minThumbExtent, viewport)
	span := viewport - extent
	maxOffset := s.MaxOffset()
	if span <= 0 || maxOffset <= 0 {
		return extent, 0
	}
	return extent, s.offset * span / maxOffset
}

// HitTest maps the scrollbar column to the scroll widget itself and descends
// into the child everywhere else, so content shifted outside the viewport
// can never be hit through it.
func (s *Scroll) HitTest(x, y int) runtime.Widget {
	if s.scrollbarVisible() && x == s.bounds.X+s.bounds.Width-1 {
		return s
	}
	if s.child != nil {
		if hit := runtime.HitTest(s.child, x, y); hit != nil {
			return hit
		}
	}
	return s
}

// Render paints the child clipped to the viewport, then the scrollbar.
func (s *Scroll) Render(ctx runtime.RenderContext) {
	bounds := s.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	if s.child != nil {
		view := runtime.Rect{X: bounds.X, Y: bounds.Y, Width: s.childWidth, Height: bounds.Height}
		clipped := ctx.Clipped(view)
		s.child.Render(clipped.Sub(s.child.Bounds()))
	}

	if s.scrollbarVisible() {
		s.renderScrollbar(ctx)
	}
}

func (s *Scroll) renderScrollbar(ctx runtime.RenderContext) {
	x := s.bounds.X + s.bounds.Width - 1
	extent, pos := s.thumbMetrics()

	track := []rune(theme.Symbols.ScrollTrack)[0]
	thumb := []rune(theme.Symbols.ScrollThumb)[0]

	for i := 0; i < s.bounds.Height; i++ {
		y := s.bounds.Y + i
		if i >= pos && i < pos+extent {
			ctx.Surface.Set(x, y, thumb, ctx.Theme.ScrollThumb)
		} else {
			ctx.Surface.Set(x, y, track, ctx.Theme.Scrollbar)
		}
	}
}

// HandleMessage implements wheel scrolling, thumb dragging with pointer
// capture, track paging, and page/home/end keys bubbling up from the
// content.
func (s *Scroll) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.MouseMsg:
		return s.handleMouse(m)

	case runtime.KeyMsg:
		switch m.Key {
		case terminal.KeyPageUp:
			s.ScrollBy(-s.bounds.Height)
			return runtime.Handled()
		case terminal.KeyPageDown:
			s.ScrollBy(s.bounds.Height)
			return runtime.Handled()
		case terminal.KeyHome:
			s.ScrollToTop()
			return runtime.Handled()
		case terminal.KeyEnd:
			s.ScrollToBottom()
			return runtime.Handled()
		}
		return runtime.Unhandled()
	}

	return s.Base.HandleMessage(msg)
}

func (s *Scroll) handleMouse(m runtime.MouseMsg) runtime.HandleResult {
	switch m.Button {
	case terminal.MouseWheelUp:
		s.ScrollBy(-wheelStep)
		return runtime.Handled()
	case terminal.MouseWheelDown:
		s.ScrollBy(wheelStep)
		return runtime.Handled()
	}

	if s.dragging {
		switch m.Action {
		case terminal.MouseMove:
			s.dragTo(m.Y)
			return runtime.Handled()
		case terminal.MouseRelease:
			s.dragging = false
			if s.window != nil {
				s.window.ReleasePointer()
			}
			return runtime.Handled()
		}
		return runtime.Handled()
	}

	onScrollbar := s.scrollbarVisible() && m.X == s.bounds.X+s.bounds.Width-1
	if m.Action == terminal.MousePress && m.Button == terminal.MouseLeft && onScrollbar {
		extent, pos := s.thumbMetrics()
		row := m.Y - s.bounds.Y
		switch {
		case row >= pos && row < pos+extent:
			// Anchor the drag at the press position so the thumb tracks
			// the pointer instead of jumping to it.
			s.dragging = true
			s.dragStartY = m.Y
			s.dragStartOffset = s.offset
			if s.window != nil {
				s.window.CapturePointer(s)
			}
		case row < pos:
			s.ScrollBy(-s.bounds.Height)
		default:
			s.ScrollBy(s.bounds.Height)
		}
		return runtime.Handled()
	}

	return runtime.Unhandled()
}

// dragTo converts the pointer's travel since the press into a scroll delta:
// each cell of thumb travel covers maxOffset / (viewport - extent) rows.
func (s *Scroll) dragTo(y int) {
	extent, _ := s.thumbMetrics()
	span := s.bounds.Height - extent
	if span <= 0 {
		return
	}
	delta := (y - s.dragStartY) * s.MaxOffset() / span
	s.SetOffset(s.dragStartOffset + delta)
}

// Unmount drops any in-flight drag along with the base state.
func (s *Scroll) Unmount() {
	s.dragging = false
	s.Base.Unmount()
}
