// Package theme provides the visual design system for loom widgets.
// A theme is a set of semantic styles; widgets never hardcode colors.
package theme

import (
	"github.com/loomtui/loom/pkg/backend"
)

// Theme defines the complete visual language for a widget tree. Swapping a
// theme on a window restyles every widget on the next frame.
type Theme struct {
	Name string

	// Core palette
	Background    backend.Style // Primary canvas
	Surface       backend.Style // Elevated surfaces (cards, panels)
	SurfaceRaised backend.Style // Higher elevation

	// Text hierarchy
	TextPrimary   backend.Style // Main content
	TextSecondary backend.Style // Supporting text
	TextMuted     backend.Style // Hints, placeholders
	TextInverse   backend.Style // Text on accent backgrounds

	// Accent colors
	Accent    backend.Style // Primary action, highlights
	AccentDim backend.Style // Subtle accent usage

	// Semantic colors
	Success backend.Style
	Warning backend.Style
	Error   backend.Style
	Info    backend.Style

	// Buttons: the hover style is the target of the animated blend that
	// starts when the pointer enters.
	Button        backend.Style
	ButtonHover   backend.Style
	ButtonPressed backend.Style
	ButtonFocused backend.Style

	// Text input
	Input            backend.Style
	InputFocused     backend.Style
	InputPlaceholder backend.Style

	// UI elements
	Border      backend.Style
	BorderFocus backend.Style
	Selection   backend.Style
	Scrollbar   backend.Style
	ScrollThumb backend.Style
}

// Default returns the dark theme loom ships with: rich blacks, warm amber
// accents.
func Default() *Theme {
	return &Theme{
		Name: "default",

		// Core palette - deep blacks with subtle blue undertone
		Background:    backend.DefaultStyle().Background(backend.ColorRGB(12, 12, 16)),
		Surface:       backend.DefaultStyle().Background(backend.ColorRGB(22, 22, 28)),
		SurfaceRaised: backend.DefaultStyle().Background(backend.ColorRGB(32, 32, 40)),

		// Text hierarchy - warm whites
		TextPrimary:   backend.DefaultStyle().Foreground(backend.ColorRGB(240, 238, 232)),
		TextSecondary: backend.DefaultStyle().Foreground(backend.ColorRGB(160, 158, 150)),
		TextMuted:     backend.DefaultStyle().Foreground(backend.ColorRGB(100, 98, 92)),
		TextInverse:   backend.DefaultStyle().Foreground(backend.ColorRGB(12, 12, 16)),

		// Accent - warm amber
		Accent:    backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
		AccentDim: backend.DefaultStyle().Foreground(backend.ColorRGB(180, 130, 60)),

		// Semantic colors
		Success: backend.DefaultStyle().Foreground(backend.ColorRGB(134, 239, 172)),
		Warning: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 138, 101)),
		Error:   backend.DefaultStyle().Foreground(backend.ColorRGB(255, 110, 90)),
		Info:    backend.DefaultStyle().Foreground(backend.ColorRGB(77, 182, 172)),

		// Buttons
		Button: backend.DefaultStyle().
			Foreground(backend.ColorRGB(240, 238, 232)).
			Background(backend.ColorRGB(45, 45, 58)),
		ButtonHover: backend.DefaultStyle().
			Foreground(backend.ColorRGB(12, 12, 16)).
			Background(backend.ColorRGB(255, 183, 77)),
		ButtonPressed: backend.DefaultStyle().
			Foreground(backend.ColorRGB(12, 12, 16)).
			Background(backend.ColorRGB(200, 140, 50)),
		ButtonFocused: backend.DefaultStyle().
			Foreground(backend.ColorRGB(240, 238, 232)).
			Background(backend.ColorRGB(60, 60, 78)).
			Bold(true),

		// Text input
		Input: backend.DefaultStyle().
			Foreground(backend.ColorRGB(240, 238, 232)).
			Background(backend.ColorRGB(22, 22, 28)),
		InputFocused: backend.DefaultStyle().
			Foreground(backend.ColorRGB(240, 238, 232)).
			Background(backend.ColorRGB(32, 32, 40)),
		InputPlaceholder: backend.DefaultStyle().
			Foreground(backend.ColorRGB(100, 98, 92)).
			Background(backend.ColorRGB(22, 22, 28)).
			Italic(true),

		// UI elements
		Border:      backend.DefaultStyle().Foreground(backend.ColorRGB(50, 50, 60)),
		BorderFocus: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
		Selection:   backend.DefaultStyle().Background(backend.ColorRGB(60, 60, 80)),
		Scrollbar:   backend.DefaultStyle().Foreground(backend.ColorRGB(50, 50, 60)),
		ScrollThumb: backend.DefaultStyle().Foreground(backend.ColorRGB(100, 100, 110)),
	}
}

// Light returns a light theme with the same semantic roles.
func Light() *Theme {
	return &Theme{
		Name: "light",

		Background:    backend.DefaultStyle().Background(backend.ColorRGB(250, 249, 245)),
		Surface:       backend.DefaultStyle().Background(backend.ColorRGB(240, 238, 232)),
		SurfaceRaised: backend.DefaultStyle().Background(backend.ColorRGB(228, 226, 218)),

		TextPrimary:   backend.DefaultStyle().Foreground(backend.ColorRGB(30, 30, 36)),
		TextSecondary: backend.DefaultStyle().Foreground(backend.ColorRGB(90, 90, 100)),
		TextMuted:     backend.DefaultStyle().Foreground(backend.ColorRGB(150, 148, 140)),
		TextInverse:   backend.DefaultStyle().Foreground(backend.ColorRGB(250, 249, 245)),

		Accent:    backend.DefaultStyle().Foreground(backend.ColorRGB(180, 110, 10)),
		AccentDim: backend.DefaultStyle().Foreground(backend.ColorRGB(200, 150, 70)),

		Success: backend.DefaultStyle().Foreground(backend.ColorRGB(22, 120, 60)),
		Warning: backend.DefaultStyle().Foreground(backend.ColorRGB(190, 90, 30)),
		Error:   backend.DefaultStyle().Foreground(backend.ColorRGB(190, 40, 30)),
		Info:    backend.DefaultStyle().Foreground(backend.ColorRGB(20, 110, 120)),

		Button: backend.DefaultStyle().
			Foreground(backend.ColorRGB(30, 30, 36)).
			Background(backend.ColorRGB(222, 220, 212)),
		ButtonHover: backend.DefaultStyle().
			Foreground(backend.ColorRGB(250, 249, 245)).
			Background(backend.ColorRGB(180, 110, 10)),
		ButtonPressed: backend.DefaultStyle().
			Foreground(backend.ColorRGB(250, 249, 245)).
			Background(backend.ColorRGB(140, 85, 5)),
		ButtonFocused: backend.DefaultStyle().
			Foreground(backend.ColorRGB(30, 30, 36)).
			Background(backend.ColorRGB(210, 206, 196)).
			Bold(true),

		Input: backend.DefaultStyle().
			Foreground(backend.ColorRGB(30, 30, 36)).
			Background(backend.ColorRGB(255, 255, 255)),
		InputFocused: backend.DefaultStyle().
			Foreground(backend.ColorRGB(30, 30, 36)).
			Background(backend.ColorRGB(248, 248, 252)),
		InputPlaceholder: backend.DefaultStyle().
			Foreground(backend.ColorRGB(150, 148, 140)).
			Background(backend.ColorRGB(255, 255, 255)).
			Italic(true),

		Border:      backend.DefaultStyle().Foreground(backend.ColorRGB(200, 198, 190)),
		BorderFocus: backend.DefaultStyle().Foreground(backend.ColorRGB(180, 110, 10)),
		Selection:   backend.DefaultStyle().Background(backend.ColorRGB(215, 225, 245)),
		Scrollbar:   backend.DefaultStyle().Foreground(backend.ColorRGB(210, 208, 200)),
		ScrollThumb: backend.DefaultStyle().Foreground(backend.ColorRGB(140, 140, 150)),
	}
}

// Lookup returns a built-in theme by name, or nil if unknown.
func Lookup(name string) *Theme {
	switch name {
	case "", "default", "dark":
		return Default()
	case "light":
		return Light()
	default:
		return nil
	}
}

// Symbols provides consistent iconography.
var Symbols = struct {
	// Bullets and markers
	Bullet   string
	Arrow    string
	Check    string
	Cross    string
	Ellipsis string

	// Borders (rounded)
	BorderTopLeft     string
	BorderTopRight    string
	BorderBottomLeft  string
	BorderBottomRight string
	BorderHorizontal  string
	BorderVertical    string

	// Scrollbar
	ScrollTrack string
	ScrollThumb string
	ScrollUp    string
	ScrollDown  string
}{
	Bullet:   "●",
	Arrow:    "›",
	Check:    "✓",
	Cross:    "✗",
	Ellipsis: "…",

	BorderTopLeft:     "╭",
	BorderTopRight:    "╮",
	BorderBottomLeft:  "╰",
	BorderBottomRight: "╯",
	BorderHorizontal:  "─",
	BorderVertical:    "│",

	ScrollTrack: "░",
	ScrollThumb: "█",
	ScrollUp:    "▲",
	ScrollDown:  "▼",
}
