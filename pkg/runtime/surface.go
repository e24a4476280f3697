package runtime

import "github.com/loomtui/loom/pkg/backend"

// Surface is the drawing target handed to widgets. Coordinates are absolute
// screen cells. Buffer implements it directly; Clip wraps any surface with a
// rectangular mask so scrolled content cannot paint outside its viewport.
type Surface interface {
	// Size returns the underlying screen dimensions.
	Size() (w, h int)

	// Set writes a rune with style at (x, y). Out of range cells are dropped.
	Set(x, y int, r rune, style backend.Style)

	// SetString writes a string starting at (x, y), clipped to the surface.
	SetString(x, y int, s string, style backend.Style)

	// Fill fills a rectangular region with a rune and style.
	Fill(r Rect, ch rune, style backend.Style)
}

type clipSurface struct {
	parent Surface
	clip   Rect
}

// Clip returns a surface that drops writes outside the given region.
// Clipping a clipped surface intersects the regions, so nested scroll
// viewports compose.
func Clip(s Surface, region Rect) Surface {
	if cs, ok := s.(*clipSurface); ok {
		return &clipSurface{parent: cs.parent, clip: cs.clip.Intersection(region)}
	}
	return &clipSurface{parent: s, clip: region}
}

func (c *clipSurface) Size() (w, h int) {
	return c.parent.Size()
}

func (c *clipSurface) Set(x, y int, r rune, style backend.Style) {
	if !c.clip.Contains(x, y) {
		return
	}
	c.parent.Set(x, y, r, style)
}

func (c *clipSurface) SetString(x, y int, s string, style backend.Style) {
	if y < c.clip.Y || y >= c.clip.Y+c.clip.Height {
		return
	}
	for i, r := range []rune(s) {
		px := x + i
		if px < c.clip.X {
			continue
		}
		if px >= c.clip.X+c.clip.Width {
			break
		}
		c.parent.Set(px, y, r, style)
	}
}

func (c *clipSurface) Fill(r Rect, ch rune, style backend.Style) {
	clipped := r.Intersection(c.clip)
	if clipped.Width == 0 || clipped.Height == 0 {
		return
	}
	c.parent.Fill(clipped, ch, style)
}

// DrawBox draws a border around a rect using box-drawing characters.
func DrawBox(s Surface, r Rect, style backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}

	// Corners
	s.Set(r.X, r.Y, '┌', style)
	s.Set(r.X+r.Width-1, r.Y, '┐', style)
	s.Set(r.X, r.Y+r.Height-1, '└', style)
	s.Set(r.X+r.Width-1, r.Y+r.Height-1, '┘', style)

	// Horizontal edges
	for x := r.X + 1; x < r.X+r.Width-1; x++ {
		s.Set(x, r.Y, '─', style)
		s.Set(x, r.Y+r.Height-1, '─', style)
	}

	// Vertical edges
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		s.Set(r.X, y, '│', style)
		s.Set(r.X+r.Width-1, y, '│', style)
	}
}

// DrawRoundedBox draws a border with rounded corners.
func DrawRoundedBox(s Surface, r Rect, style backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}

	// Rounded corners
	s.Set(r.X, r.Y, '╭', style)
	s.Set(r.X+r.Width-1, r.Y, '╮', style)
	s.Set(r.X, r.Y+r.Height-1, '╰', style)
	s.Set(r.X+r.Width-1, r.Y+r.Height-1, '╯', style)

	// Horizontal edges
	for x := r.X + 1; x < r.X+r.Width-1; x++ {
		s.Set(x, r.Y, '─', style)
		s.Set(x, r.Y+r.Height-1, '─', style)
	}

	// Vertical edges
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		s.Set(r.X, y, '│', style)
		s.Set(r.X+r.Width-1, y, '│', style)
	}
}
