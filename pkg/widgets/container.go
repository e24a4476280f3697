package widgets

import (
	loomerrors "github.com/loomtui/loom/pkg/errors"
	"github.com/loomtui/loom/pkg/runtime"
)

// Stack layers children on top of each other; later children paint over
// earlier ones and win hit testing. Its measured size is the largest child
// size plus padding, and every child is arranged over the full padded area.
type Stack struct {
	Base
	children []runtime.Widget
}

// NewStack creates a stack with the given children, bottom first.
func NewStack(children ...runtime.Widget) *Stack {
	s := &Stack{}
	for _, child := range children {
		s.AddChild(child)
	}
	return s
}

// SetPadding sets the inner padding.
func (s *Stack) SetPadding(p Insets) {
	st := s.style
	st.Padding = p
	s.SetStyle(st)
}

// WithPadding sets the padding and returns the stack for chaining.
func (s *Stack) WithPadding(p Insets) *Stack {
	s.SetPadding(p)
	return s
}

// AddChild appends a child on top of the stack. A widget belongs to at most
// one parent; adding a child that already has one panics.
func (s *Stack) AddChild(child runtime.Widget) {
	adoptChild(s, child)
	s.children = append(s.children, child)
	if s.window != nil {
		s.window.MountSubtree(child)
	}
}

// RemoveChild detaches child, unmounting it if the stack is mounted.
// Returns false if child is not one of the stack's children.
func (s *Stack) RemoveChild(child runtime.Widget) bool {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			releaseChild(s.window, child)
			return true
		}
	}
	return false
}

// ChildWidgets returns the children in paint order.
func (s *Stack) ChildWidgets() []runtime.Widget {
	return s.children
}

// Measure returns the largest child size plus padding.
func (s *Stack) Measure(c runtime.Constraints) runtime.Size {
	return s.sizeWithHints(c, s.measureContent)
}

func (s *Stack) measureContent(c runtime.Constraints) runtime.Size {
	padding := s.style.Padding
	inner := padding.Deflate(c)
	var w, h int
	for _, child := range s.children {
		if !child.Visible() {
			continue
		}
		size := child.Measure(inner)
		w = max(w, size.Width)
		h = max(h, size.Height)
	}
	return runtime.Size{
		Width:  w + padding.Horizontal(),
		Height: h + padding.Vertical(),
	}
}

// Layout gives every child the full padded content area.
func (s *Stack) Layout(bounds runtime.Rect) {
	s.Base.Layout(bounds)
	content := s.style.Padding.Apply(s.Bounds())
	for _, child := range s.children {
		child.Layout(content)
	}
}

// Render paints children bottom to top.
func (s *Stack) Render(ctx runtime.RenderContext) {
	for _, child := range s.children {
		if !child.Visible() {
			continue
		}
		child.Render(ctx.Sub(child.Bounds()))
	}
}

// adoptChild wires child into parent's subtree. Panics if child already has
// a parent: a widget in two trees would receive conflicting layouts and
// double events, and the mistake is always in setup code.
func adoptChild(parent runtime.Widget, child runtime.Widget) {
	if child == nil {
		panic(loomerrors.New(loomerrors.ErrCodeInvalidInput, "nil child widget"))
	}
	if child.Parent() != nil {
		panic(loomerrors.New(loomerrors.ErrCodeWidgetReparent, "widget already has a parent").
			WithContext("widget", child.ID()).
			WithRemediation("remove the widget from its current parent first"))
	}
	child.SetParent(parent)
}

// releaseChild unmounts child if win is set, then clears its parent
// reference. Unmounting must happen first: the window locates the owning
// layer by walking the parent chain.
func releaseChild(win *runtime.Window, child runtime.Widget) {
	if win != nil {
		win.UnmountSubtree(child)
	}
	child.SetParent(nil)
}
