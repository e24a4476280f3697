package widgets

import "github.com/loomtui/loom/pkg/runtime"

// Insets is per-edge spacing in cells.
type Insets struct {
	Top, Right, Bottom, Left int
}

// UniformInsets returns equal insets on all edges.
func UniformInsets(n int) Insets {
	return Insets{Top: n, Right: n, Bottom: n, Left: n}
}

// SymmetricInsets returns insets with the given vertical and horizontal
// sizes.
func SymmetricInsets(vertical, horizontal int) Insets {
	return Insets{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Horizontal returns left + right.
func (i Insets) Horizontal() int {
	return i.Left + i.Right
}

// Vertical returns top + bottom.
func (i Insets) Vertical() int {
	return i.Top + i.Bottom
}

// Apply shrinks a rect by the insets.
func (i Insets) Apply(r runtime.Rect) runtime.Rect {
	return r.Inset(i.Top, i.Right, i.Bottom, i.Left)
}

// Deflate shrinks constraints by the insets, so a child measured with the
// result fits inside the padded area. Unbounded axes stay unbounded.
func (i Insets) Deflate(c runtime.Constraints) runtime.Constraints {
	out := c
	out.MinWidth = max(0, c.MinWidth-i.Horizontal())
	out.MinHeight = max(0, c.MinHeight-i.Vertical())
	if c.BoundedWidth() {
		out.MaxWidth = max(0, c.MaxWidth-i.Horizontal())
	}
	if c.BoundedHeight() {
		out.MaxHeight = max(0, c.MaxHeight-i.Vertical())
	}
	return out
}

// Auto leaves a dimension to be determined by measurement.
const Auto = 0

// Style is the box-model record every widget carries: padding inside the
// widget's bounds, margin outside them, and optional explicit size hints.
// A Width or Height above zero pins the measured extent on that axis; Auto
// lets content decide. Containers read their own Padding; Margin and the
// size hints are applied by the widget itself during measure and layout.
type Style struct {
	Padding Insets
	Margin  Insets
	Width   int
	Height  int
}

// Helper functions

const maxInt = int(^uint(0) >> 1)

// satAdd adds spacing to a measured extent without overflowing past the
// unbounded sentinel.
func satAdd(a, b int) int {
	if b > 0 && a > maxInt-b {
		return maxInt
	}
	return a + b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
