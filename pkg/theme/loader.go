package theme

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/loomtui/loom/pkg/backend"
	loomerrors "github.com/loomtui/loom/pkg/errors"
)

// styleSpec is one style entry in a theme file. Colors are RRGGBB hex,
// with or without a leading #. Attribute flags are additive over the base.
type styleSpec struct {
	FG        string `yaml:"fg"`
	BG        string `yaml:"bg"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	Dim       bool   `yaml:"dim"`
	Underline bool   `yaml:"underline"`
}

// themeFile is the on-disk YAML shape. Styles override the base theme;
// anything omitted keeps the base value.
type themeFile struct {
	Name   string               `yaml:"name"`
	Base   string               `yaml:"base"`
	Styles map[string]styleSpec `yaml:"styles"`
}

// Load reads a theme file from disk.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loomerrors.Wrap(err, loomerrors.ErrCodeThemeLoad, "read theme file").
			WithContext("path", path)
	}
	th, err := Parse(data)
	if err != nil {
		if le, ok := err.(*loomerrors.Error); ok {
			le.WithContext("path", path)
		}
		return nil, err
	}
	return th, nil
}

// Parse builds a theme from YAML content.
func Parse(data []byte) (*Theme, error) {
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, loomerrors.Wrap(err, loomerrors.ErrCodeThemeParse, "unmarshal theme")
	}

	base := Lookup(file.Base)
	if base == nil {
		return nil, loomerrors.New(loomerrors.ErrCodeThemeParse, "unknown base theme").
			WithContext("base", file.Base).
			WithRemediation("use base: default or base: light")
	}

	th := *base
	if file.Name != "" {
		th.Name = file.Name
	}

	slots := th.styleSlots()
	for key, spec := range file.Styles {
		slot, ok := slots[key]
		if !ok {
			return nil, loomerrors.New(loomerrors.ErrCodeThemeParse, "unknown style key").
				WithContext("style", key)
		}
		style, err := spec.apply(*slot)
		if err != nil {
			return nil, err
		}
		*slot = style
	}

	return &th, nil
}

// styleSlots maps theme file keys to the fields they override.
func (t *Theme) styleSlots() map[string]*backend.Style {
	return map[string]*backend.Style{
		"background":        &t.Background,
		"surface":           &t.Surface,
		"surface_raised":    &t.SurfaceRaised,
		"text_primary":      &t.TextPrimary,
		"text_secondary":    &t.TextSecondary,
		"text_muted":        &t.TextMuted,
		"text_inverse":      &t.TextInverse,
		"accent":            &t.Accent,
		"accent_dim":        &t.AccentDim,
		"success":           &t.Success,
		"warning":           &t.Warning,
		"error":             &t.Error,
		"info":              &t.Info,
		"button":            &t.Button,
		"button_hover":      &t.ButtonHover,
		"button_pressed":    &t.ButtonPressed,
		"button_focused":    &t.ButtonFocused,
		"input":             &t.Input,
		"input_focused":     &t.InputFocused,
		"input_placeholder": &t.InputPlaceholder,
		"border":            &t.Border,
		"border_focus":      &t.BorderFocus,
		"selection":         &t.Selection,
		"scrollbar":         &t.Scrollbar,
		"scroll_thumb":      &t.ScrollThumb,
	}
}

func (s styleSpec) apply(base backend.Style) (backend.Style, error) {
	style := base
	if s.FG != "" {
		c, err := ParseHex(s.FG)
		if err != nil {
			return style, err
		}
		style = style.Foreground(c)
	}
	if s.BG != "" {
		c, err := ParseHex(s.BG)
		if err != nil {
			return style, err
		}
		style = style.Background(c)
	}
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Italic {
		style = style.Italic(true)
	}
	if s.Dim {
		style = style.Dim(true)
	}
	if s.Underline {
		style = style.Underline(true)
	}
	return style, nil
}

// ParseHex parses an RRGGBB hex color, with or without a leading #.
func ParseHex(s string) (backend.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return 0, loomerrors.New(loomerrors.ErrCodeThemeColor, "color must be RRGGBB hex").
			WithContext("value", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, loomerrors.Wrap(err, loomerrors.ErrCodeThemeColor, "parse hex color").
			WithContext("value", s)
	}
	return backend.ColorRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
