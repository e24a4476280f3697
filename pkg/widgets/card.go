package widgets

import (
	"github.com/loomtui/loom/pkg/runtime"
)

// Card frames one child with a rounded border, an optional title on the top
// edge, and inner padding.
type Card struct {
	Base
	child    runtime.Widget
	title    string
	measurer runtime.TextMeasurer
}

// NewCard creates a card around child with one cell of horizontal padding.
func NewCard(child runtime.Widget) *Card {
	c := &Card{
		measurer: runtime.DefaultMeasurer,
	}
	c.style.Padding = Insets{Left: 1, Right: 1}
	if child != nil {
		c.SetChild(child)
	}
	return c
}

// SetChild replaces the framed child, unmounting the previous one.
func (c *Card) SetChild(child runtime.Widget) {
	if c.child != nil {
		old := c.child
		c.child = nil
		releaseChild(c.window, old)
	}
	if child == nil {
		return
	}
	adoptChild(c, child)
	c.child = child
	if c.window != nil {
		c.window.MountSubtree(child)
	}
}

// SetTitle sets the text drawn on the top border.
func (c *Card) SetTitle(title string) {
	c.title = title
	c.Invalidate()
}

// WithTitle sets the title and returns the card for chaining.
func (c *Card) WithTitle(title string) *Card {
	c.SetTitle(title)
	return c
}

// SetPadding sets the padding between the border and the child.
func (c *Card) SetPadding(p Insets) {
	st := c.style
	st.Padding = p
	c.SetStyle(st)
}

// ChildWidgets returns the framed child.
func (c *Card) ChildWidgets() []runtime.Widget {
	if c.child == nil {
		return nil
	}
	return []runtime.Widget{c.child}
}

// contentInsets is the border plus padding on each edge.
func (c *Card) contentInsets() Insets {
	p := c.style.Padding
	return Insets{
		Top:    1 + p.Top,
		Right:  1 + p.Right,
		Bottom: 1 + p.Bottom,
		Left:   1 + p.Left,
	}
}

// Measure returns the child size plus border and padding.
func (c *Card) Measure(cons runtime.Constraints) runtime.Size {
	return c.sizeWithHints(cons, c.measureContent)
}

func (c *Card) measureContent(cons runtime.Constraints) runtime.Size {
	insets := c.contentInsets()
	var child runtime.Size
	if c.child != nil {
		child = c.child.Measure(insets.Deflate(cons))
	}
	minWidth := c.measurer.StringWidth(c.title) + 4
	return runtime.Size{
		Width:  max(child.Width+insets.Horizontal(), minWidth),
		Height: child.Height + insets.Vertical(),
	}
}

// Layout arranges the child inside the border and padding.
func (c *Card) Layout(bounds runtime.Rect) {
	c.Base.Layout(bounds)
	if c.child != nil {
		c.child.Layout(c.contentInsets().Apply(c.Bounds()))
	}
}

// Render fills the card surface, draws the border and title, then the child.
func (c *Card) Render(ctx runtime.RenderContext) {
	bounds := c.bounds
	if bounds.Width < 2 || bounds.Height < 2 {
		return
	}

	ctx.Surface.Fill(bounds, ' ', ctx.Theme.Surface)
	runtime.DrawRoundedBox(ctx.Surface, bounds, ctx.Theme.Border)

	if c.title != "" {
		title := " " + c.title + " "
		maxTitle := bounds.Width - 2
		if c.measurer.StringWidth(title) > maxTitle {
			title = truncateToWidth(title, maxTitle, c.measurer)
		}
		drawClipped(ctx.Surface, bounds.X+1, bounds.Y, title, maxTitle, ctx.Theme.TextSecondary, c.measurer)
	}

	if c.child != nil && c.child.Visible() {
		c.child.Render(ctx.Sub(c.child.Bounds()))
	}
}
