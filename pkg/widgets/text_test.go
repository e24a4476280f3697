package widgets

import (
	"strings"
	"testing"

	"github.com/loomtui/loom/pkg/reactive"
	"github.com/loomtui/loom/pkg/runtime"
	"github.com/loomtui/loom/pkg/theme"
)

func TestText_Measure(t *testing.T) {
	text := NewText("Hello\nWorld")

	size := text.Measure(runtime.Loose(100, 100))

	if size.Width != 5 {
		t.Errorf("Width = %d, want 5", size.Width)
	}
	if size.Height != 2 {
		t.Errorf("Height = %d, want 2", size.Height)
	}
}

func TestText_MeasureWraps(t *testing.T) {
	text := NewText("hello world")

	size := text.Measure(runtime.Loose(5, 100))

	if size.Width != 5 {
		t.Errorf("Width = %d, want 5", size.Width)
	}
	if size.Height != 2 {
		t.Errorf("Height = %d, want 2", size.Height)
	}
}

func TestText_MeasureUnboundedWidth(t *testing.T) {
	text := NewText("hello world")

	size := text.Measure(runtime.Unbounded())

	if size.Width != 11 {
		t.Errorf("Width = %d, want the natural line width 11", size.Width)
	}
	if size.Height != 1 {
		t.Errorf("Height = %d, want 1", size.Height)
	}
}

func TestText_WrapBreaksLongWords(t *testing.T) {
	lines := wrapLines("abcdefgh", 3, runtime.DefaultMeasurer)

	want := []string{"abc", "def", "gh"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestText_WrapKeepsParagraphBreaks(t *testing.T) {
	lines := wrapLines("a\n\nb", 10, runtime.DefaultMeasurer)

	if len(lines) != 3 {
		t.Fatalf("lines = %v, want 3 entries", lines)
	}
	if lines[1] != "" {
		t.Errorf("blank paragraph became %q", lines[1])
	}
}

func TestText_WrapCollapsesSpaces(t *testing.T) {
	lines := wrapLines("a   b", 10, runtime.DefaultMeasurer)

	if len(lines) != 1 || lines[0] != "a b" {
		t.Errorf("lines = %v, want [a b]", lines)
	}
}

func TestText_WrapCachePerWidth(t *testing.T) {
	text := NewText("one two three four five")

	text.lines(10)
	if text.cacheWidth != 10 {
		t.Errorf("cacheWidth = %d, want 10", text.cacheWidth)
	}
	first := text.cacheLines

	// Same width reuses the cache.
	text.lines(10)
	if len(text.cacheLines) != len(first) {
		t.Error("cache was rebuilt for the same width")
	}

	// A new width recomputes.
	text.lines(6)
	if text.cacheWidth != 6 {
		t.Errorf("cacheWidth = %d, want 6", text.cacheWidth)
	}
}

func TestText_SetTextDropsCache(t *testing.T) {
	text := NewText("hello world")
	text.lines(5)

	text.SetText("goodbye")
	if text.cacheLines != nil {
		t.Error("cache survived SetText")
	}

	lines := text.lines(10)
	if len(lines) != 1 || lines[0] != "goodbye" {
		t.Errorf("lines = %v, want [goodbye]", lines)
	}
}

func TestText_ClearCaches(t *testing.T) {
	text := NewText("hello world")
	text.lines(5)

	text.ClearCaches()

	if text.cacheLines != nil || text.cacheWidth != 0 {
		t.Error("ClearCaches left cache state behind")
	}
}

func TestText_NoWrapSplitsOnNewlines(t *testing.T) {
	text := NewText("a long line that would wrap\nshort")
	text.SetWrap(false)

	lines := text.lines(5)
	if len(lines) != 2 {
		t.Errorf("lines = %v, want 2 raw lines", lines)
	}
}

func TestText_Render(t *testing.T) {
	text := NewText("Hi")
	text.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 1})

	buf := runtime.NewBuffer(10, 1)
	ctx := runtime.RenderContext{Surface: buf, Theme: theme.Default()}
	text.Render(ctx)

	if buf.Get(0, 0).Rune != 'H' {
		t.Errorf("expected 'H' at (0,0), got %c", buf.Get(0, 0).Rune)
	}
	if buf.Get(1, 0).Rune != 'i' {
		t.Errorf("expected 'i' at (1,0), got %c", buf.Get(1, 0).Rune)
	}
}

func TestText_RenderClipsToHeight(t *testing.T) {
	text := NewText("one\ntwo\nthree")
	text.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 2})

	buf := runtime.NewBuffer(10, 3)
	ctx := runtime.RenderContext{Surface: buf, Theme: theme.Default()}
	text.Render(ctx)

	if buf.Get(0, 1).Rune != 't' {
		t.Errorf("expected 't' at (0,1), got %c", buf.Get(0, 1).Rune)
	}
	if buf.Get(0, 2).Rune == 't' {
		t.Error("third line rendered outside the widget's height")
	}
}

func TestText_BindState(t *testing.T) {
	cell := reactive.NewState("one")
	text := NewText("")
	text.BindState(cell)

	if text.Text() != "one" {
		t.Errorf("text = %q, want the cell's value", text.Text())
	}

	cell.Set("two")
	if text.Text() != "two" {
		t.Errorf("text = %q after Set, want two", text.Text())
	}

	text.Unbind()
	cell.Set("three")
	if text.Text() != "two" {
		t.Errorf("text = %q, want two after Unbind", text.Text())
	}
}

func TestText_BindStateReplacesBinding(t *testing.T) {
	first := reactive.NewState("a")
	second := reactive.NewState("b")

	text := NewText("")
	text.BindState(first)
	text.BindState(second)

	first.Set("changed")
	if text.Text() != "b" {
		t.Errorf("text = %q, old binding still live", text.Text())
	}

	second.Set("c")
	if text.Text() != "c" {
		t.Errorf("text = %q, want c", text.Text())
	}
}

func TestText_BindComputed(t *testing.T) {
	name := reactive.NewState("world")
	greeting := reactive.NewComputed(func() string {
		return "hello " + name.Get()
	}, name)

	text := NewText("")
	text.BindComputed(greeting)

	if text.Text() != "hello world" {
		t.Errorf("text = %q, want hello world", text.Text())
	}

	name.Set("loom")
	if text.Text() != "hello loom" {
		t.Errorf("text = %q after dependency change, want hello loom", text.Text())
	}
}

func TestText_UnmountReleasesBinding(t *testing.T) {
	cell := reactive.NewState("one")
	text := NewText("")
	text.BindState(cell)

	text.Unmount()

	cell.Set("two")
	if text.Text() != "one" {
		t.Errorf("text = %q, binding survived unmount", text.Text())
	}
}

func TestLabel_Alignment(t *testing.T) {
	tests := []struct {
		align    Alignment
		expected int // X position of 'H'
	}{
		{AlignLeft, 0},
		{AlignCenter, 4}, // (10-2)/2 = 4
		{AlignRight, 8},  // 10-2 = 8
	}

	for _, tc := range tests {
		label := NewLabel("Hi").WithAlignment(tc.align)
		label.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 1})

		buf := runtime.NewBuffer(10, 1)
		ctx := runtime.RenderContext{Surface: buf, Theme: theme.Default()}
		label.Render(ctx)

		if buf.Get(tc.expected, 0).Rune != 'H' {
			t.Errorf("align %v: expected 'H' at x=%d, got %c", tc.align, tc.expected, buf.Get(tc.expected, 0).Rune)
		}
	}
}

func TestLabel_Measure(t *testing.T) {
	label := NewLabel("Hello")

	size := label.Measure(runtime.Loose(20, 10))
	if size.Width != 5 || size.Height != 1 {
		t.Errorf("Measure = %v, want {5,1}", size)
	}
}

func TestLabel_RenderTruncates(t *testing.T) {
	label := NewLabel("Hello")
	label.Layout(runtime.Rect{X: 0, Y: 0, Width: 3, Height: 1})

	buf := runtime.NewBuffer(3, 1)
	ctx := runtime.RenderContext{Surface: buf, Theme: theme.Default()}
	label.Render(ctx)

	if buf.Get(0, 0).Rune != 'H' || buf.Get(1, 0).Rune != 'e' {
		t.Error("truncated label lost its head")
	}
	if buf.Get(2, 0).Rune != '…' {
		t.Errorf("expected ellipsis at (2,0), got %c", buf.Get(2, 0).Rune)
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"Hello", 10, "Hello"},
		{"Hello World", 8, "Hello W…"},
		{"Hi", 2, "Hi"},
		{"Hello", 1, "…"},
		{"Hello", 0, ""},
	}

	for _, tc := range tests {
		got := truncateToWidth(tc.input, tc.width, runtime.DefaultMeasurer)
		if got != tc.expected {
			t.Errorf("truncateToWidth(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.expected)
		}
	}
}

func TestWrapParagraph_LinesFitWrapWidth(t *testing.T) {
	content := strings.Repeat("lorem ipsum dolor sit amet ", 4)
	lines := wrapLines(content, 12, runtime.DefaultMeasurer)

	for i, line := range lines {
		if w := runtime.DefaultMeasurer.StringWidth(line); w > 12 {
			t.Errorf("line %d is %d cells wide: %q", i, w, line)
		}
	}
}
