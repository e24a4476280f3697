package widgets

import "github.com/loomtui/loom/pkg/runtime"

// CrossAlign positions children across a box's main axis.
type CrossAlign int

const (
	// CrossStretch gives every child the full cross-axis extent.
	CrossStretch CrossAlign = iota
	CrossStart
	CrossCenter
	CrossEnd
)

// MainAlign places the run of children along the main axis when they do not
// fill it. It only applies while no child is growing; a growing child always
// absorbs the leftover space.
type MainAlign int

const (
	MainStart MainAlign = iota
	MainCenter
	MainEnd
)

type boxChild struct {
	widget runtime.Widget
	grow   float64
}

// Box lays out children along one axis with optional spacing between them.
// NewColumn and NewRow construct the two orientations. Fixed children keep
// their measured main-axis size; children added with AddFlex share the
// leftover space in proportion to their grow factors.
type Box struct {
	Base
	vertical bool
	children []boxChild
	spacing  int
	cross    CrossAlign
	main     MainAlign
}

// NewColumn creates a box that lays out children top to bottom.
func NewColumn(children ...runtime.Widget) *Box {
	b := &Box{vertical: true}
	for _, child := range children {
		b.AddChild(child)
	}
	return b
}

// NewRow creates a box that lays out children left to right.
func NewRow(children ...runtime.Widget) *Box {
	b := &Box{}
	for _, child := range children {
		b.AddChild(child)
	}
	return b
}

// WithSpacing sets the gap between adjacent children and returns the box.
func (b *Box) WithSpacing(n int) *Box {
	b.spacing = n
	if b.window != nil {
		b.window.RequestLayout()
	}
	return b
}

// WithPadding sets the inner padding and returns the box.
func (b *Box) WithPadding(p Insets) *Box {
	st := b.style
	st.Padding = p
	b.SetStyle(st)
	return b
}

// WithCrossAlign sets the cross-axis alignment and returns the box.
func (b *Box) WithCrossAlign(a CrossAlign) *Box {
	b.cross = a
	if b.window != nil {
		b.window.RequestLayout()
	}
	return b
}

// WithMainAlign sets the main-axis placement and returns the box.
func (b *Box) WithMainAlign(a MainAlign) *Box {
	b.main = a
	if b.window != nil {
		b.window.RequestLayout()
	}
	return b
}

// AddChild appends a fixed-size child.
func (b *Box) AddChild(child runtime.Widget) {
	b.AddFlex(child, 0)
}

// AddFlex appends a child that grows with the given factor. Zero means the
// child keeps its measured size.
func (b *Box) AddFlex(child runtime.Widget, grow float64) {
	adoptChild(b, child)
	b.children = append(b.children, boxChild{widget: child, grow: grow})
	if b.window != nil {
		b.window.MountSubtree(child)
	}
}

// RemoveChild detaches child, unmounting it if the box is mounted. Returns
// false if child is not one of the box's children.
func (b *Box) RemoveChild(child runtime.Widget) bool {
	for i, c := range b.children {
		if c.widget == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			releaseChild(b.window, child)
			return true
		}
	}
	return false
}

// ChildWidgets returns the children in paint order.
func (b *Box) ChildWidgets() []runtime.Widget {
	if len(b.children) == 0 {
		return nil
	}
	out := make([]runtime.Widget, 0, len(b.children))
	for _, c := range b.children {
		out = append(out, c.widget)
	}
	return out
}

// Measure sums visible children along the main axis, plus spacing between
// them, and takes the largest cross-axis size plus padding.
func (b *Box) Measure(c runtime.Constraints) runtime.Size {
	return b.sizeWithHints(c, b.measureContent)
}

func (b *Box) measureContent(c runtime.Constraints) runtime.Size {
	padding := b.style.Padding
	inner := padding.Deflate(c)
	child := b.childConstraints(inner.MaxWidth, inner.MaxHeight)
	totalMain := 0
	maxCross := 0
	visible := 0

	for _, bc := range b.children {
		if !bc.widget.Visible() {
			continue
		}
		size := bc.widget.Measure(child)
		totalMain += b.mainOf(size)
		maxCross = max(maxCross, b.crossOf(size))
		visible++
	}
	if visible > 1 {
		totalMain += b.spacing * (visible - 1)
	}

	if b.vertical {
		return runtime.Size{
			Width:  maxCross + padding.Horizontal(),
			Height: totalMain + padding.Vertical(),
		}
	}
	return runtime.Size{
		Width:  totalMain + padding.Horizontal(),
		Height: maxCross + padding.Vertical(),
	}
}

// Layout measures visible children, hands leftover main-axis space to
// growing children in proportion to their factors, and places each child
// according to the cross alignment.
func (b *Box) Layout(bounds runtime.Rect) {
	b.Base.Layout(bounds)
	if len(b.children) == 0 {
		return
	}

	content := b.style.Padding.Apply(b.Bounds())
	child := b.childConstraints(content.Width, content.Height)
	sizes := make([]runtime.Size, len(b.children))
	totalFixed := 0
	totalGrow := 0.0
	visible := 0

	for i, bc := range b.children {
		if !bc.widget.Visible() {
			continue
		}
		sizes[i] = bc.widget.Measure(child)
		if bc.grow == 0 {
			totalFixed += b.mainOf(sizes[i])
		}
		totalGrow += bc.grow
		visible++
	}
	if visible > 1 {
		totalFixed += b.spacing * (visible - 1)
	}

	available := max(0, b.mainOf(content.Size())-totalFixed)

	offset := b.mainLead(content, totalFixed, totalGrow)
	for i, bc := range b.children {
		if !bc.widget.Visible() {
			continue
		}

		mainSize := b.mainOf(sizes[i])
		if bc.grow > 0 && totalGrow > 0 {
			mainSize = int(float64(available) * bc.grow / totalGrow)
		}

		crossSize := b.crossOf(sizes[i])
		crossExtent := b.crossOf(content.Size())
		if b.cross == CrossStretch {
			crossSize = crossExtent
		}
		crossSize = min(crossSize, crossExtent)
		crossLead := b.crossLead(crossSize, crossExtent)

		var cb runtime.Rect
		if b.vertical {
			cb = runtime.Rect{
				X:      content.X + crossLead,
				Y:      content.Y + offset,
				Width:  crossSize,
				Height: mainSize,
			}
		} else {
			cb = runtime.Rect{
				X:      content.X + offset,
				Y:      content.Y + crossLead,
				Width:  mainSize,
				Height: crossSize,
			}
		}
		bc.widget.Layout(cb)

		offset += mainSize + b.spacing
	}
}

// Render paints visible children in order.
func (b *Box) Render(ctx runtime.RenderContext) {
	for _, bc := range b.children {
		if !bc.widget.Visible() {
			continue
		}
		bc.widget.Render(ctx.Sub(bc.widget.Bounds()))
	}
}

// childConstraints leaves the main axis unbounded so children report their
// natural size, while the cross axis inherits the box's limit.
func (b *Box) childConstraints(maxW, maxH int) runtime.Constraints {
	if b.vertical {
		return runtime.Constraints{MaxWidth: maxW, MaxHeight: maxInt}
	}
	return runtime.Constraints{MaxWidth: maxInt, MaxHeight: maxH}
}

// mainLead returns where the first child starts along the main axis.
func (b *Box) mainLead(bounds runtime.Rect, totalFixed int, totalGrow float64) int {
	if totalGrow > 0 || b.main == MainStart {
		return 0
	}
	leftover := max(0, b.mainOf(bounds.Size())-totalFixed)
	if b.main == MainCenter {
		return leftover / 2
	}
	return leftover
}

// crossLead returns a child's offset across the main axis.
func (b *Box) crossLead(crossSize, crossExtent int) int {
	switch b.cross {
	case CrossCenter:
		return max(0, (crossExtent-crossSize)/2)
	case CrossEnd:
		return max(0, crossExtent-crossSize)
	default:
		return 0
	}
}

func (b *Box) mainOf(s runtime.Size) int {
	if b.vertical {
		return s.Height
	}
	return s.Width
}

func (b *Box) crossOf(s runtime.Size) int {
	if b.vertical {
		return s.Width
	}
	return s.Height
}

// Spacer is an empty widget for claiming space in a box. Add it with
// AddFlex to push neighbors apart, or give it fixed size hints for a
// constant gap.
type Spacer struct {
	Base
}

// NewSpacer creates a spacer widget.
func NewSpacer() *Spacer {
	return &Spacer{}
}

// NewFixedSpacer creates a spacer that always measures w by h cells.
func NewFixedSpacer(w, h int) *Spacer {
	s := &Spacer{}
	s.style.Width = w
	s.style.Height = h
	return s
}
