package widgets

import (
	"testing"

	"github.com/loomtui/loom/pkg/runtime"
	"github.com/loomtui/loom/pkg/terminal"
	"github.com/loomtui/loom/pkg/theme"
)

// newOverflowingScroll builds a 10x10 viewport over 30 rows of content, so
// the scrollbar is visible and MaxOffset is 20.
func newOverflowingScroll() (*Scroll, *testWidget) {
	child := newTestWidget(8, 30)
	s := NewScroll(child)
	s.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	return s, child
}

func TestScroll_LayoutReservesScrollbarColumn(t *testing.T) {
	s, child := newOverflowingScroll()

	if s.ContentHeight() != 30 {
		t.Errorf("content height = %d, want 30", s.ContentHeight())
	}
	if s.MaxOffset() != 20 {
		t.Errorf("max offset = %d, want 20", s.MaxOffset())
	}
	// One column is reserved for the scrollbar.
	if child.Bounds().Width != 9 {
		t.Errorf("child width = %d, want 9", child.Bounds().Width)
	}
	if child.Bounds().Height != 30 {
		t.Errorf("child height = %d, want the full content height 30", child.Bounds().Height)
	}
}

func TestScroll_NoScrollbarWhenContentFits(t *testing.T) {
	child := newTestWidget(8, 5)
	s := NewScroll(child)
	s.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 10})

	if s.scrollbarVisible() {
		t.Error("scrollbar visible though the content fits")
	}
	if s.MaxOffset() != 0 {
		t.Errorf("max offset = %d, want 0", s.MaxOffset())
	}
	if child.Bounds().Width != 10 {
		t.Errorf("child width = %d, want the full 10", child.Bounds().Width)
	}
}

func TestScroll_SetOffsetClamps(t *testing.T) {
	s, child := newOverflowingScroll()

	s.SetOffset(35)
	if s.Offset() != 20 {
		t.Errorf("offset = %d, want clamped to 20", s.Offset())
	}

	s.SetOffset(-5)
	if s.Offset() != 0 {
		t.Errorf("offset = %d, want clamped to 0", s.Offset())
	}

	s.SetOffset(7)
	if child.Bounds().Y != -7 {
		t.Errorf("child Y = %d, want -7", child.Bounds().Y)
	}
}

func TestScroll_ScrollByAndEnds(t *testing.T) {
	s, _ := newOverflowingScroll()

	s.ScrollBy(12)
	if s.Offset() != 12 {
		t.Errorf("offset = %d, want 12", s.Offset())
	}

	s.ScrollToBottom()
	if s.Offset() != 20 {
		t.Errorf("offset = %d, want 20", s.Offset())
	}

	s.ScrollToTop()
	if s.Offset() != 0 {
		t.Errorf("offset = %d, want 0", s.Offset())
	}
}

func TestScroll_ThumbMetrics(t *testing.T) {
	s, _ := newOverflowingScroll()

	// Viewport 10 over content 30: the thumb is a third of the track.
	extent, pos := s.thumbMetrics()
	if extent != 3 {
		t.Errorf("extent = %d, want 3", extent)
	}
	if pos != 0 {
		t.Errorf("pos = %d, want 0", pos)
	}

	s.SetOffset(20)
	_, pos = s.thumbMetrics()
	if pos != 7 { // bottom of a 10-row track with a 3-row thumb
		t.Errorf("pos = %d at max offset, want 7", pos)
	}

	s.SetOffset(10)
	_, pos = s.thumbMetrics()
	if pos != 3 { // 10 * 7 / 20
		t.Errorf("pos = %d at half, want 3", pos)
	}
}

func TestScroll_ThumbNeverVanishes(t *testing.T) {
	child := newTestWidget(8, 1000)
	s := NewScroll(child)
	s.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 10})

	extent, _ := s.thumbMetrics()
	if extent < 1 {
		t.Errorf("extent = %d, the thumb must stay grabbable", extent)
	}
}

func TestScroll_Wheel(t *testing.T) {
	s, _ := newOverflowingScroll()

	s.HandleMessage(runtime.MouseMsg{X: 5, Y: 5, Button: terminal.MouseWheelDown})
	if s.Offset() != 3 {
		t.Errorf("offset = %d after wheel down, want 3", s.Offset())
	}

	s.HandleMessage(runtime.MouseMsg{X: 5, Y: 5, Button: terminal.MouseWheelDown})
	s.HandleMessage(runtime.MouseMsg{X: 5, Y: 5, Button: terminal.MouseWheelUp})
	if s.Offset() != 3 {
		t.Errorf("offset = %d, want 3", s.Offset())
	}
}

func TestScroll_Keys(t *testing.T) {
	s, _ := newOverflowingScroll()

	s.HandleMessage(runtime.KeyMsg{Key: terminal.KeyPageDown})
	if s.Offset() != 10 {
		t.Errorf("offset = %d after PageDown, want 10", s.Offset())
	}

	s.HandleMessage(runtime.KeyMsg{Key: terminal.KeyEnd})
	if s.Offset() != 20 {
		t.Errorf("offset = %d after End, want 20", s.Offset())
	}

	s.HandleMessage(runtime.KeyMsg{Key: terminal.KeyPageUp})
	if s.Offset() != 10 {
		t.Errorf("offset = %d after PageUp, want 10", s.Offset())
	}

	s.HandleMessage(runtime.KeyMsg{Key: terminal.KeyHome})
	if s.Offset() != 0 {
		t.Errorf("offset = %d after Home, want 0", s.Offset())
	}
}

func TestScroll_TrackClickPages(t *testing.T) {
	s, _ := newOverflowingScroll()

	// Thumb occupies rows 0-2; a click below it pages down.
	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 5, Button: terminal.MouseLeft, Action: terminal.MousePress})
	if s.Offset() != 10 {
		t.Errorf("offset = %d after track click below, want 10", s.Offset())
	}

	// Thumb is now at row 3; a click above it pages back up.
	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 0, Button: terminal.MouseLeft, Action: terminal.MousePress})
	if s.Offset() != 0 {
		t.Errorf("offset = %d after track click above, want 0", s.Offset())
	}
}

func TestScroll_ThumbDrag(t *testing.T) {
	s, _ := newOverflowingScroll()

	// Press on the thumb anchors the drag.
	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 1, Button: terminal.MouseLeft, Action: terminal.MousePress})
	if !s.dragging {
		t.Fatal("press on the thumb should start a drag")
	}
	if s.Offset() != 0 {
		t.Errorf("offset = %d, the press itself must not scroll", s.Offset())
	}

	// Each row of travel covers maxOffset / (track - extent) = 20/7 rows.
	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 3, Action: terminal.MouseMove})
	if s.Offset() != 5 { // 2 * 20 / 7
		t.Errorf("offset = %d after dragging 2 rows, want 5", s.Offset())
	}

	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 8, Action: terminal.MouseMove})
	if s.Offset() != 20 {
		t.Errorf("offset = %d after dragging to the bottom, want 20", s.Offset())
	}

	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 8, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
	if s.dragging {
		t.Error("release should end the drag")
	}
}

func TestScroll_DragCapturesPointer(t *testing.T) {
	child := newTestWidget(8, 30)
	s := NewScroll(child)
	win := runtime.NewWindow(10, 10, nil, nil)
	win.SetRoot(s)
	s.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 10})

	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 1, Button: terminal.MouseLeft, Action: terminal.MousePress})
	if win.Captured() != runtime.Widget(s) {
		t.Error("drag should capture the pointer")
	}

	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 2, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
	if win.Captured() != nil {
		t.Error("release should free the capture")
	}
}

func TestScroll_HitTest(t *testing.T) {
	s, child := newOverflowingScroll()

	if got := s.HitTest(9, 5); got != runtime.Widget(s) {
		t.Errorf("scrollbar column hit %v, want the scroll widget", got)
	}
	if got := s.HitTest(4, 5); got != runtime.Widget(child) {
		t.Errorf("content hit %v, want the child", got)
	}
}

func TestScroll_RenderClipsChild(t *testing.T) {
	child := newFillWidget(8, 30, 'X')
	s := NewScroll(child)
	s.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	s.SetOffset(5)

	buf := runtime.NewBuffer(10, 12)
	ctx := runtime.RenderContext{Surface: buf, Theme: theme.Default()}
	s.Render(ctx)

	if buf.Get(0, 0).Rune != 'X' {
		t.Errorf("expected content at (0,0), got %c", buf.Get(0, 0).Rune)
	}
	// The child extends past the viewport but must not paint there.
	if buf.Get(0, 10).Rune == 'X' {
		t.Error("content leaked below the viewport")
	}

	// Scrollbar column: thumb at rows 1-3 for offset 5, track elsewhere.
	track := []rune(theme.Symbols.ScrollTrack)[0]
	thumb := []rune(theme.Symbols.ScrollThumb)[0]
	if buf.Get(9, 0).Rune != track {
		t.Errorf("expected track at (9,0), got %c", buf.Get(9, 0).Rune)
	}
	if buf.Get(9, 1).Rune != thumb {
		t.Errorf("expected thumb at (9,1), got %c", buf.Get(9, 1).Rune)
	}
}

func TestScroll_SetChildReplaces(t *testing.T) {
	first := newTestWidget(8, 30)
	s := NewScroll(first)

	second := newTestWidget(8, 10)
	s.SetChild(second)

	if first.Parent() != nil {
		t.Error("replaced child still has a parent")
	}
	if s.Child() != runtime.Widget(second) {
		t.Error("child was not replaced")
	}
}

func TestScroll_EmptyViewport(t *testing.T) {
	s := NewScroll(nil)
	s.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 10})

	// No child: nothing to scroll, nothing to crash on.
	s.HandleMessage(runtime.KeyMsg{Key: terminal.KeyPageDown})
	if s.Offset() != 0 {
		t.Errorf("offset = %d, want 0", s.Offset())
	}
	s.Render(runtime.RenderContext{Surface: runtime.NewBuffer(10, 10), Theme: theme.Default()})
}

func TestScroll_UnmountEndsDrag(t *testing.T) {
	s, _ := newOverflowingScroll()

	s.HandleMessage(runtime.MouseMsg{X: 9, Y: 1, Button: terminal.MouseLeft, Action: terminal.MousePress})
	s.Unmount()

	if s.dragging {
		t.Error("drag survived unmount")
	}
}
