package render

import (
	"math"

	"circle-scope.klederson.com/internal/scope"
)

const (
	fitMargin = 1.25 // Headroom above the largest sample
	fitEase   = 0.15 // Fraction of the gap closed per shrinking update
	minExtent = 1.0
)

// Fit tracks an auto-fit extent that follows the spread of recent frames.
// It grows at once to cover a new peak and shrinks gradually so the plot
// does not jitter.
type Fit struct {
	Extent float64
}

// NewFit starts tracking from initial.
func NewFit(initial float64) *Fit {
	if initial < minExtent {
		initial = minExtent
	}
	return &Fit{Extent: initial}
}

// Update moves the extent toward the spread of f and returns it.
// An empty frame leaves the extent untouched.
func (ft *Fit) Update(f scope.Frame) float64 {
	peak := Spread(f)
	if peak == 0 {
		return ft.Extent
	}

	target := math.Max(peak*fitMargin, minExtent)
	if target >= ft.Extent {
		ft.Extent = target
	} else {
		ft.Extent -= (ft.Extent - target) * fitEase
	}
	return ft.Extent
}

// Spread returns the largest absolute coordinate in f.
func Spread(f scope.Frame) float64 {
	var peak float64
	for _, p := range f.Points {
		peak = math.Max(peak, math.Abs(float64(p.X)))
		peak = math.Max(peak, math.Abs(float64(p.Y)))
	}
	return peak
}
