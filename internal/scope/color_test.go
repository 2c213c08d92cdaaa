package scope

import (
	"errors"
	"testing"

	"circle-scope.klederson.com/internal/config"
)

func TestDarken_HalvesWithTruncation(t *testing.T) {
	tests := []struct {
		name   string
		in     RGB
		factor float64
		want   RGB
	}{
		{"even channels", RGB{200, 100, 50}, 0.5, RGB{100, 50, 25}},
		{"odd channels truncate", RGB{201, 255, 1}, 0.5, RGB{100, 127, 0}},
		{"zero factor", RGB{10, 20, 30}, 0, RGB{}},
		{"identity", RGB{10, 20, 30}, 1, RGB{10, 20, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Darken(tt.in, tt.factor); got != tt.want {
				t.Errorf("Darken(%v, %v) = %v, want %v", tt.in, tt.factor, got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#C86432")
	if err != nil {
		t.Fatalf("ParseHex returned error: %v", err)
	}
	if c != (RGB{200, 100, 50}) {
		t.Fatalf("ParseHex = %v, want {200 100 50}", c)
	}

	c, err = ParseHex("  00ff00 ")
	if err != nil {
		t.Fatalf("ParseHex without # returned error: %v", err)
	}
	if c != (RGB{0, 255, 0}) {
		t.Fatalf("ParseHex = %v, want {0 255 0}", c)
	}

	if _, err := ParseHex("#nothex"); err == nil {
		t.Fatalf("ParseHex(#nothex) returned nil error")
	}
}

func TestRGB_Hex(t *testing.T) {
	if got := (RGB{200, 100, 50}).Hex(); got != "#c86432" {
		t.Fatalf("Hex() = %q, want #c86432", got)
	}
}

func TestPickCustom_EmptyIsCancelled(t *testing.T) {
	if _, err := PickCustom("   "); !errors.Is(err, ErrColorPickCancelled) {
		t.Fatalf("PickCustom(blank) error = %v, want ErrColorPickCancelled", err)
	}
	c, err := PickCustom("#010203")
	if err != nil || c != (RGB{1, 2, 3}) {
		t.Fatalf("PickCustom = %v, %v; want {1 2 3}, nil", c, err)
	}
}

func TestNewPalette(t *testing.T) {
	p, err := NewPalette(nil)
	if err != nil {
		t.Fatalf("NewPalette(nil) returned error: %v", err)
	}
	if len(p) != len(config.DefaultPalette) {
		t.Fatalf("len(palette) = %d, want %d", len(p), len(config.DefaultPalette))
	}
	if p.At(0).Color != (RGB{R: 255}) {
		t.Fatalf("first swatch = %v, want red", p.At(0))
	}
	if p.At(len(p)).Color != p.At(0).Color {
		t.Fatalf("At does not wrap around")
	}
	if p.At(-1).Color != p.At(len(p)-1).Color {
		t.Fatalf("At(-1) does not wrap to the last swatch")
	}
	if p.IndexOf(RGB{1, 2, 3}) != -1 {
		t.Fatalf("IndexOf(custom) != -1")
	}

	if _, err := NewPalette([]config.PaletteColor{{Name: "bad", Hex: "zz"}}); err == nil {
		t.Fatalf("NewPalette with a bad hex returned nil error")
	}
}
