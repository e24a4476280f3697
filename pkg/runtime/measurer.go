package runtime

import "github.com/mattn/go-runewidth"

// TextMeasurer reports the terminal cell width of text. Widgets measure
// through this interface so tests can pin widths without a terminal.
type TextMeasurer interface {
	StringWidth(s string) int
	RuneWidth(r rune) int
}

// CellMeasurer measures with East Asian width rules via go-runewidth.
type CellMeasurer struct{}

// StringWidth returns the cell width of s.
func (CellMeasurer) StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneWidth returns the cell width of r.
func (CellMeasurer) RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// Truncate shortens s to at most width cells, appending tail if truncated.
func (CellMeasurer) Truncate(s string, width int, tail string) string {
	return runewidth.Truncate(s, width, tail)
}

// DefaultMeasurer is the measurer widgets use unless one is injected.
var DefaultMeasurer TextMeasurer = CellMeasurer{}
