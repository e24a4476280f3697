package widgets

import (
	"testing"

	"github.com/loomtui/loom/pkg/runtime"
	"github.com/loomtui/loom/pkg/terminal"
	"github.com/loomtui/loom/pkg/theme"
)

func TestButton_Measure(t *testing.T) {
	btn := NewButton("OK")

	size := btn.Measure(runtime.Loose(40, 10))
	// Two label cells plus two cells of padding per side.
	if size.Width != 6 {
		t.Errorf("Width = %d, want 6", size.Width)
	}
	if size.Height != 1 {
		t.Errorf("Height = %d, want 1", size.Height)
	}
}

func TestButton_ClickOnReleaseInside(t *testing.T) {
	btn := NewButton("OK")
	btn.Layout(runtime.Rect{X: 2, Y: 1, Width: 6, Height: 1})

	clicks := 0
	btn.OnClick(func() { clicks++ })

	result := btn.HandleMessage(runtime.MouseMsg{X: 3, Y: 1, Button: terminal.MouseLeft, Action: terminal.MousePress})
	if !result.Handled {
		t.Fatal("press should be handled")
	}
	if clicks != 0 {
		t.Error("click fired on press; it must wait for the release")
	}

	btn.HandleMessage(runtime.MouseMsg{X: 4, Y: 1, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestButton_ReleaseOutsideDoesNotClick(t *testing.T) {
	btn := NewButton("OK")
	btn.Layout(runtime.Rect{X: 2, Y: 1, Width: 6, Height: 1})

	clicks := 0
	btn.OnClick(func() { clicks++ })

	btn.HandleMessage(runtime.MouseMsg{X: 3, Y: 1, Button: terminal.MouseLeft, Action: terminal.MousePress})
	btn.HandleMessage(runtime.MouseMsg{X: 0, Y: 0, Button: terminal.MouseLeft, Action: terminal.MouseRelease})

	if clicks != 0 {
		t.Errorf("clicks = %d, want 0 after releasing outside", clicks)
	}
	if btn.pressed {
		t.Error("button still pressed after release")
	}
}

func TestButton_PressCapturesPointer(t *testing.T) {
	btn := NewButton("OK")
	win := runtime.NewWindow(20, 3, nil, nil)
	win.SetRoot(btn)
	btn.Layout(runtime.Rect{X: 2, Y: 1, Width: 6, Height: 1})

	btn.HandleMessage(runtime.MouseMsg{X: 3, Y: 1, Button: terminal.MouseLeft, Action: terminal.MousePress})
	if win.Captured() != runtime.Widget(btn) {
		t.Fatal("press should capture the pointer")
	}

	// Dragging off the button lifts the pressed state without cancelling.
	btn.HandleMessage(runtime.MouseMsg{X: 15, Y: 0, Action: terminal.MouseMove})
	if btn.pressed {
		t.Error("pressed should clear while the pointer is outside")
	}

	// Dragging back restores it.
	btn.HandleMessage(runtime.MouseMsg{X: 4, Y: 1, Action: terminal.MouseMove})
	if !btn.pressed {
		t.Error("pressed should return when the pointer comes back")
	}

	clicks := 0
	btn.OnClick(func() { clicks++ })
	btn.HandleMessage(runtime.MouseMsg{X: 4, Y: 1, Button: terminal.MouseLeft, Action: terminal.MouseRelease})

	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if win.Captured() != nil {
		t.Error("release should free the pointer capture")
	}
}

func TestButton_KeyboardActivation(t *testing.T) {
	btn := NewButton("OK")
	btn.Layout(runtime.Rect{X: 0, Y: 0, Width: 6, Height: 1})

	clicks := 0
	btn.OnClick(func() { clicks++ })

	// Unfocused buttons ignore keys.
	result := btn.HandleMessage(runtime.KeyMsg{Key: terminal.KeyEnter})
	if result.Handled {
		t.Error("unfocused button should not handle Enter")
	}

	btn.Focus()
	btn.HandleMessage(runtime.KeyMsg{Key: terminal.KeyEnter})
	btn.HandleMessage(runtime.KeyMsg{Key: terminal.KeyRune, Rune: ' '})

	if clicks != 2 {
		t.Errorf("clicks = %d, want 2 from Enter and Space", clicks)
	}
}

func TestButton_ClickEvent(t *testing.T) {
	btn := NewButton("OK")
	btn.Layout(runtime.Rect{X: 0, Y: 0, Width: 6, Height: 1})

	var got Event
	btn.On(EventClick, func(ev Event) { got = ev })

	btn.HandleMessage(runtime.MouseMsg{X: 1, Y: 0, Button: terminal.MouseLeft, Action: terminal.MousePress})
	btn.HandleMessage(runtime.MouseMsg{X: 1, Y: 0, Button: terminal.MouseLeft, Action: terminal.MouseRelease})

	if got.Kind != EventClick {
		t.Fatal("no click event fired")
	}
	if got.X != 1 || got.Y != 0 {
		t.Errorf("click at (%d,%d), want (1,0)", got.X, got.Y)
	}
}

func TestButton_SubmitOnClick(t *testing.T) {
	btn := NewButton("Save")
	btn.SubmitOnClick(true)
	btn.Layout(runtime.Rect{X: 0, Y: 0, Width: 8, Height: 1})

	btn.HandleMessage(runtime.MouseMsg{X: 1, Y: 0, Button: terminal.MouseLeft, Action: terminal.MousePress})
	result := btn.HandleMessage(runtime.MouseMsg{X: 1, Y: 0, Button: terminal.MouseLeft, Action: terminal.MouseRelease})

	if len(result.Commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(result.Commands))
	}
	submit, ok := result.Commands[0].(runtime.Submit)
	if !ok {
		t.Fatalf("command = %T, want Submit", result.Commands[0])
	}
	if submit.Text != "Save" {
		t.Errorf("submit text = %q, want Save", submit.Text)
	}
}

func TestButton_RenderCentersLabel(t *testing.T) {
	btn := NewButton("OK")
	btn.Layout(runtime.Rect{X: 0, Y: 0, Width: 10, Height: 1})

	buf := runtime.NewBuffer(10, 1)
	ctx := runtime.RenderContext{Surface: buf, Theme: theme.Default()}
	btn.Render(ctx)

	// (10-2)/2 = 4
	if buf.Get(4, 0).Rune != 'O' {
		t.Errorf("expected 'O' at (4,0), got %c", buf.Get(4, 0).Rune)
	}
	if buf.Get(5, 0).Rune != 'K' {
		t.Errorf("expected 'K' at (5,0), got %c", buf.Get(5, 0).Rune)
	}
}

func TestButton_RenderTruncatesLabel(t *testing.T) {
	btn := NewButton("Search")
	btn.Layout(runtime.Rect{X: 0, Y: 0, Width: 4, Height: 1})

	buf := runtime.NewBuffer(4, 1)
	ctx := runtime.RenderContext{Surface: buf, Theme: theme.Default()}
	btn.Render(ctx)

	if buf.Get(0, 0).Rune != 'S' {
		t.Errorf("expected 'S' at (0,0), got %c", buf.Get(0, 0).Rune)
	}
	if buf.Get(3, 0).Rune != '…' {
		t.Errorf("expected ellipsis at (3,0), got %c", buf.Get(3, 0).Rune)
	}
}

func TestButton_UnmountClearsPress(t *testing.T) {
	btn := NewButton("OK")
	btn.Layout(runtime.Rect{X: 0, Y: 0, Width: 6, Height: 1})

	btn.HandleMessage(runtime.MouseMsg{X: 1, Y: 0, Button: terminal.MouseLeft, Action: terminal.MousePress})
	btn.Unmount()

	if btn.pressed {
		t.Error("pressed survived unmount")
	}
}

func TestButton_SetLabel(t *testing.T) {
	btn := NewButton("OK")
	btn.SetLabel("Cancel")

	if btn.Label() != "Cancel" {
		t.Errorf("label = %q, want Cancel", btn.Label())
	}

	size := btn.Measure(runtime.Loose(40, 10))
	if size.Width != 10 { // 6 + 4
		t.Errorf("Width = %d, want 10", size.Width)
	}
}
