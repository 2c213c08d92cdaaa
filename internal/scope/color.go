package scope

import (
	"errors"
	"fmt"
	"strings"

	"circle-scope.klederson.com/internal/config"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrColorPickCancelled means the custom color entry was abandoned; the
// previous color stays in place.
var ErrColorPickCancelled = errors.New("color pick cancelled")

// RGB is a display color with 0-255 channels.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Darken scales each channel by factor and truncates, so 201*0.5 gives 100.
func Darken(c RGB, factor float64) RGB {
	scale := func(v uint8) uint8 {
		x := float64(v) * factor
		if x <= 0 {
			return 0
		}
		if x >= 255 {
			return 255
		}
		return uint8(x)
	}
	return RGB{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}

// ParseHex reads a #rrggbb color.
func ParseHex(s string) (RGB, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "#") {
		trimmed = "#" + trimmed
	}
	col, err := colorful.Hex(trimmed)
	if err != nil {
		return RGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// PickCustom turns free-form color input into a color. Empty input counts
// as a cancelled pick.
func PickCustom(input string) (RGB, error) {
	if strings.TrimSpace(input) == "" {
		return RGB{}, ErrColorPickCancelled
	}
	return ParseHex(input)
}

// Swatch is one named palette entry.
type Swatch struct {
	Name  string
	Color RGB
}

// Palette is the fixed list of row colors.
type Palette []Swatch

// NewPalette parses configured colors. An empty list yields the defaults.
func NewPalette(colors []config.PaletteColor) (Palette, error) {
	if len(colors) == 0 {
		colors = config.DefaultPalette
	}
	p := make(Palette, 0, len(colors))
	for _, pc := range colors {
		c, err := ParseHex(pc.Hex)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", pc.Name, err)
		}
		p = append(p, Swatch{Name: pc.Name, Color: c})
	}
	return p, nil
}

// At returns the swatch at i, wrapping around the palette.
func (p Palette) At(i int) Swatch {
	if len(p) == 0 {
		return Swatch{Name: "red", Color: RGB{R: 255}}
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// IndexOf returns the position of c in the palette, or -1 for custom colors.
func (p Palette) IndexOf(c RGB) int {
	for i, s := range p {
		if s.Color == c {
			return i
		}
	}
	return -1
}
