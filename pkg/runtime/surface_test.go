package runtime

import (
	"testing"

	"github.com/loomtui/loom/pkg/backend"
)

func TestClip_DropsOutsideWrites(t *testing.T) {
	b := NewBuffer(20, 10)
	s := Clip(b, Rect{5, 2, 5, 3})

	// Coordinates stay absolute. Inside the region writes land.
	s.Set(5, 2, 'X', backend.DefaultStyle())
	if b.Get(5, 2).Rune != 'X' {
		t.Error("write inside clip region should land")
	}

	// Outside the region writes are dropped.
	s.Set(4, 2, 'Y', backend.DefaultStyle())
	s.Set(10, 2, 'Y', backend.DefaultStyle())
	s.Set(7, 5, 'Y', backend.DefaultStyle())
	if b.Get(4, 2).Rune != 0 || b.Get(10, 2).Rune != 0 || b.Get(7, 5).Rune != 0 {
		t.Error("writes outside clip region should be dropped")
	}
}

func TestClip_Size(t *testing.T) {
	b := NewBuffer(20, 10)
	s := Clip(b, Rect{5, 2, 5, 3})

	// Size reports the underlying screen, not the region.
	w, h := s.Size()
	if w != 20 || h != 10 {
		t.Errorf("Size() = %d, %d; want 20, 10", w, h)
	}
}

func TestClip_Composes(t *testing.T) {
	b := NewBuffer(20, 10)
	outer := Clip(b, Rect{2, 2, 10, 6})
	inner := Clip(outer, Rect{5, 0, 10, 10})

	// The effective region is the intersection: x 5..11, y 2..7.
	inner.Set(5, 2, 'A', backend.DefaultStyle())
	if b.Get(5, 2).Rune != 'A' {
		t.Error("write inside both regions should land")
	}

	inner.Set(3, 3, 'B', backend.DefaultStyle()) // inside outer only
	if b.Get(3, 3).Rune != 0 {
		t.Error("write outside inner region should be dropped")
	}

	inner.Set(13, 3, 'C', backend.DefaultStyle()) // inside inner only
	if b.Get(13, 3).Rune != 0 {
		t.Error("write outside outer region should be dropped")
	}
}

func TestClip_SetStringClips(t *testing.T) {
	b := NewBuffer(20, 10)
	s := Clip(b, Rect{5, 2, 5, 3})

	s.SetString(3, 2, "Hello", backend.DefaultStyle())

	// 'H' and 'e' fall left of the region; "llo" lands at x=5.
	if b.Get(4, 2).Rune != 0 {
		t.Error("clipped prefix should not be written")
	}
	if b.Get(5, 2).Rune != 'l' {
		t.Errorf("Get(5,2) = %c, want l", b.Get(5, 2).Rune)
	}
	if b.Get(7, 2).Rune != 'o' {
		t.Errorf("Get(7,2) = %c, want o", b.Get(7, 2).Rune)
	}

	// Wrong row drops the whole string.
	s.SetString(5, 7, "Hello", backend.DefaultStyle())
	if b.Get(5, 7).Rune != 0 {
		t.Error("string outside the region's rows should be dropped")
	}
}

func TestClip_FillClips(t *testing.T) {
	b := NewBuffer(20, 10)
	s := Clip(b, Rect{5, 2, 5, 3})

	s.Fill(Rect{0, 0, 20, 10}, '#', backend.DefaultStyle())

	if b.Get(5, 2).Rune != '#' || b.Get(9, 4).Rune != '#' {
		t.Error("fill should cover the clip region")
	}
	if b.Get(4, 2).Rune != 0 || b.Get(10, 2).Rune != 0 {
		t.Error("fill should not spill outside the clip region")
	}
}

func TestClip_FillNoIntersection(t *testing.T) {
	b := NewBuffer(20, 10)
	s := Clip(b, Rect{5, 2, 5, 3})

	s.Fill(Rect{100, 100, 5, 5}, '#', backend.DefaultStyle())

	if b.IsDirty() {
		t.Error("fill with no intersection should not touch the buffer")
	}
}

func TestDrawBox(t *testing.T) {
	b := NewBuffer(10, 5)
	style := backend.DefaultStyle()

	DrawBox(b, Rect{0, 0, 10, 5}, style)

	// Check corners
	if b.Get(0, 0).Rune != '┌' {
		t.Errorf("top-left corner = %c, want ┌", b.Get(0, 0).Rune)
	}
	if b.Get(9, 0).Rune != '┐' {
		t.Errorf("top-right corner = %c, want ┐", b.Get(9, 0).Rune)
	}
	if b.Get(0, 4).Rune != '└' {
		t.Errorf("bottom-left corner = %c, want └", b.Get(0, 4).Rune)
	}
	if b.Get(9, 4).Rune != '┘' {
		t.Errorf("bottom-right corner = %c, want ┘", b.Get(9, 4).Rune)
	}

	// Check edges
	if b.Get(5, 0).Rune != '─' {
		t.Errorf("top edge = %c, want ─", b.Get(5, 0).Rune)
	}
	if b.Get(0, 2).Rune != '│' {
		t.Errorf("left edge = %c, want │", b.Get(0, 2).Rune)
	}

	// Interior untouched
	if b.Get(5, 2).Rune != 0 {
		t.Error("interior should not be drawn")
	}
}

func TestDrawRoundedBox(t *testing.T) {
	b := NewBuffer(10, 5)
	style := backend.DefaultStyle()

	DrawRoundedBox(b, Rect{0, 0, 10, 5}, style)

	if b.Get(0, 0).Rune != '╭' {
		t.Errorf("top-left corner = %c, want ╭", b.Get(0, 0).Rune)
	}
	if b.Get(9, 0).Rune != '╮' {
		t.Errorf("top-right corner = %c, want ╮", b.Get(9, 0).Rune)
	}
	if b.Get(0, 4).Rune != '╰' {
		t.Errorf("bottom-left corner = %c, want ╰", b.Get(0, 4).Rune)
	}
	if b.Get(9, 4).Rune != '╯' {
		t.Errorf("bottom-right corner = %c, want ╯", b.Get(9, 4).Rune)
	}
}

func TestDrawBox_TooSmall(t *testing.T) {
	b := NewBuffer(10, 10)
	style := backend.DefaultStyle()

	DrawBox(b, Rect{0, 0, 1, 1}, style)
	DrawRoundedBox(b, Rect{0, 0, 1, 1}, style)

	if b.Get(0, 0).Rune != 0 {
		t.Error("boxes smaller than 2x2 should not draw")
	}
}
