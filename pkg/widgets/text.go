package widgets

import (
	"strings"
	"unicode/utf8"

	"github.com/loomtui/loom/pkg/backend"
	"github.com/loomtui/loom/pkg/reactive"
	"github.com/loomtui/loom/pkg/runtime"
)

// Text displays multi-line text, word-wrapped to its width. Wrapping is
// cached per width and recomputed when the text, width, or theme changes.
type Text struct {
	Base
	content   string
	textStyle backend.Style
	styled    bool
	wrap      bool
	measurer  runtime.TextMeasurer

	cacheWidth int
	cacheLines []string

	unbind func()
}

// NewText creates a wrapping text widget.
func NewText(content string) *Text {
	return &Text{
		content:  content,
		wrap:     true,
		measurer: runtime.DefaultMeasurer,
	}
}

// SetText replaces the displayed text.
func (t *Text) SetText(content string) {
	if t.content == content {
		return
	}
	t.content = content
	t.ClearCaches()
	if t.window != nil {
		t.window.RequestLayout()
	}
}

// Text returns the current text.
func (t *Text) Text() string {
	return t.content
}

// SetTextStyle overrides the theme's primary text style.
func (t *Text) SetTextStyle(style backend.Style) {
	t.textStyle = style
	t.styled = true
	t.Invalidate()
}

// WithTextStyle sets the text style and returns the widget for chaining.
func (t *Text) WithTextStyle(style backend.Style) *Text {
	t.SetTextStyle(style)
	return t
}

// SetWrap toggles word wrapping. Without it, lines are clipped at the
// widget's edge.
func (t *Text) SetWrap(wrap bool) {
	if t.wrap == wrap {
		return
	}
	t.wrap = wrap
	t.ClearCaches()
	if t.window != nil {
		t.window.RequestLayout()
	}
}

// SetMeasurer replaces the text measurer. Tests use this to pin widths.
func (t *Text) SetMeasurer(m runtime.TextMeasurer) {
	t.measurer = m
	t.ClearCaches()
}

// BindState follows a string state cell: the text updates on every change.
// The binding is released when the widget unmounts or on the next Bind call.
func (t *Text) BindState(cell *reactive.State[string]) {
	t.Unbind()
	t.SetText(cell.Get())
	t.unbind = cell.Subscribe(func(s string) { t.SetText(s) })
}

// BindComputed follows a computed string cell.
func (t *Text) BindComputed(cell *reactive.Computed[string]) {
	t.Unbind()
	t.SetText(cell.Get())
	t.unbind = cell.Subscribe(func() { t.SetText(cell.Get()) })
}

// Unbind releases the active reactive binding, if any.
func (t *Text) Unbind() {
	if t.unbind != nil {
		t.unbind()
		t.unbind = nil
	}
}

// Unmount releases the reactive binding along with the base state.
func (t *Text) Unmount() {
	t.Unbind()
	t.Base.Unmount()
}

// ClearCaches drops the wrap cache.
func (t *Text) ClearCaches() {
	t.cacheWidth = 0
	t.cacheLines = nil
}

// lines returns the wrapped lines for the given width, cached per width.
func (t *Text) lines(width int) []string {
	if !t.wrap {
		return strings.Split(t.content, "\n")
	}
	if width <= 0 {
		return nil
	}
	if t.cacheLines == nil || t.cacheWidth != width {
		t.cacheLines = wrapLines(t.content, width, t.measurer)
		t.cacheWidth = width
	}
	return t.cacheLines
}

// Measure returns the wrapped text extent. With an unbounded width the text
// reports its natural line widths.
func (t *Text) Measure(c runtime.Constraints) runtime.Size {
	return t.sizeWithHints(c, t.measureContent)
}

func (t *Text) measureContent(c runtime.Constraints) runtime.Size {
	if t.wrap && c.BoundedWidth() {
		lines := t.lines(c.MaxWidth)
		w := 0
		for _, line := range lines {
			w = max(w, t.measurer.StringWidth(line))
		}
		return runtime.Size{Width: w, Height: max(1, len(lines))}
	}

	w, h := 0, 0
	for _, line := range strings.Split(t.content, "\n") {
		w = max(w, t.measurer.StringWidth(line))
		h++
	}
	return runtime.Size{Width: w, Height: max(1, h)}
}

// Render draws the wrapped lines, clipped to the widget's bounds.
func (t *Text) Render(ctx runtime.RenderContext) {
	bounds := t.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	style := t.textStyle
	if !t.styled {
		style = ctx.Theme.TextPrimary
	}

	for i, line := range t.lines(bounds.Width) {
		if i >= bounds.Height {
			break
		}
		drawClipped(ctx.Surface, bounds.X, bounds.Y+i, line, bounds.Width, style, t.measurer)
	}
}

// wrapLines word-wraps s to the given cell width. Paragraph breaks are
// preserved; words wider than a full line are broken mid-word.
func wrapLines(s string, width int, m runtime.TextMeasurer) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, paragraph := range strings.Split(s, "\n") {
		out = append(out, wrapParagraph(paragraph, width, m)...)
	}
	return out
}

func wrapParagraph(p string, width int, m runtime.TextMeasurer) []string {
	words := strings.Fields(p)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	lineWidth := 0
	flush := func() {
		lines = append(lines, line)
		line = ""
		lineWidth = 0
	}

	for _, word := range words {
		wordWidth := m.StringWidth(word)

		for wordWidth > width {
			if lineWidth > 0 {
				flush()
			}
			head, tail := splitToWidth(word, width, m)
			line = head
			lineWidth = m.StringWidth(head)
			flush()
			word = tail
			wordWidth = m.StringWidth(word)
		}
		if word == "" {
			continue
		}

		sep := 0
		if lineWidth > 0 {
			sep = 1
		}
		if lineWidth+sep+wordWidth > width {
			flush()
			sep = 0
		}
		if sep == 1 {
			line += " "
			lineWidth++
		}
		line += word
		lineWidth += wordWidth
	}
	if lineWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitToWidth cuts s at the last rune boundary fitting in width cells.
// Always consumes at least one rune so callers make progress.
func splitToWidth(s string, width int, m runtime.TextMeasurer) (head, tail string) {
	w := 0
	for i, r := range s {
		rw := m.RuneWidth(r)
		if w+rw > width && i > 0 {
			return s[:i], s[i:]
		}
		if w+rw > width {
			_, size := utf8.DecodeRuneInString(s)
			return s[:size], s[size:]
		}
		w += rw
	}
	return s, ""
}

// drawClipped writes s at (x, y), stopping at width cells.
func drawClipped(surface runtime.Surface, x, y int, s string, width int, style backend.Style, m runtime.TextMeasurer) {
	cx := x
	for _, r := range s {
		rw := m.RuneWidth(r)
		if cx+rw > x+width {
			break
		}
		surface.Set(cx, y, r, style)
		cx += rw
	}
}

// Label is a single-line text widget with alignment, truncated with an
// ellipsis when it does not fit.
type Label struct {
	Base
	text      string
	textStyle backend.Style
	styled    bool
	alignment Alignment
	measurer  runtime.TextMeasurer
}

// Alignment specifies single-line text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// NewLabel creates a label widget.
func NewLabel(text string) *Label {
	return &Label{
		text:     text,
		measurer: runtime.DefaultMeasurer,
	}
}

// SetText updates the label text.
func (l *Label) SetText(text string) {
	if l.text == text {
		return
	}
	l.text = text
	if l.window != nil {
		l.window.RequestLayout()
	}
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}

// SetTextStyle overrides the theme's primary text style.
func (l *Label) SetTextStyle(style backend.Style) {
	l.textStyle = style
	l.styled = true
	l.Invalidate()
}

// WithTextStyle sets the text style and returns for chaining.
func (l *Label) WithTextStyle(style backend.Style) *Label {
	l.SetTextStyle(style)
	return l
}

// SetAlignment sets text alignment.
func (l *Label) SetAlignment(align Alignment) {
	l.alignment = align
	l.Invalidate()
}

// WithAlignment sets alignment and returns for chaining.
func (l *Label) WithAlignment(align Alignment) *Label {
	l.SetAlignment(align)
	return l
}

// Measure returns the label's single-line extent.
func (l *Label) Measure(c runtime.Constraints) runtime.Size {
	return l.sizeWithHints(c, func(runtime.Constraints) runtime.Size {
		return runtime.Size{Width: l.measurer.StringWidth(l.text), Height: 1}
	})
}

// Render draws the label aligned within its bounds.
func (l *Label) Render(ctx runtime.RenderContext) {
	bounds := l.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	style := l.textStyle
	if !l.styled {
		style = ctx.Theme.TextPrimary
	}

	text := l.text
	w := l.measurer.StringWidth(text)
	if w > bounds.Width {
		text = truncateToWidth(text, bounds.Width, l.measurer)
		w = l.measurer.StringWidth(text)
	}

	x := bounds.X
	switch l.alignment {
	case AlignCenter:
		x = bounds.X + (bounds.Width-w)/2
	case AlignRight:
		x = bounds.X + bounds.Width - w
	}

	drawClipped(ctx.Surface, x, bounds.Y, text, bounds.Width, style, l.measurer)
}

// truncateToWidth shortens s to width cells, ending with an ellipsis when
// anything was cut.
func truncateToWidth(s string, width int, m runtime.TextMeasurer) string {
	if width <= 0 {
		return ""
	}
	if m.StringWidth(s) <= width {
		return s
	}
	ellipsis := "…"
	if width == 1 {
		return ellipsis
	}
	head, _ := splitToWidth(s, width-1, m)
	return head + ellipsis
}
