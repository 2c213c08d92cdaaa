package render

import (
	"math"

	"circle-scope.klederson.com/internal/config"
	"circle-scope.klederson.com/internal/scope"
)

// Geometry maps fixed-point sample space onto a terminal cell grid.
// Sample space is centred on the origin and spans [-Extent, Extent] on both axes.
type Geometry struct {
	Width, Height    int
	CenterX, CenterY int
	Radius           float64 // plot radius in columns
	Extent           float64 // sample value drawn on the radius
}

// NewGeometry lays out a width x height plot. Non-positive extents fall back
// to config.DefaultExtent.
func NewGeometry(width, height int, extent float64) Geometry {
	if extent <= 0 {
		extent = config.DefaultExtent
	}
	centerX := width / 2
	centerY := height / 2
	radius := math.Min(float64(centerX-1), float64(centerY-1)/config.AspectRatio)
	if radius < 3 {
		radius = 3
	}
	return Geometry{
		Width:   width,
		Height:  height,
		CenterX: centerX,
		CenterY: centerY,
		Radius:  radius,
		Extent:  extent,
	}
}

// ToCell returns the cell a sample lands on. ok is false when it falls
// outside the grid.
func (g Geometry) ToCell(p scope.Point) (col, row int, ok bool) {
	scale := g.Radius / g.Extent
	col = g.CenterX + int(math.Round(float64(p.X)*scale))
	row = g.CenterY - int(math.Round(float64(p.Y)*scale*config.AspectRatio))
	if col < 0 || col >= g.Width || row < 0 || row >= g.Height {
		return 0, 0, false
	}
	return col, row, true
}

// CellDistance computes the distance from a cell to the plot center,
// accounting for terminal aspect ratio.
func (g Geometry) CellDistance(col, row int) float64 {
	dx := float64(col - g.CenterX)
	dy := float64(row-g.CenterY) / config.AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle returns the angle from center to a cell in [0, 2π),
// 0 pointing up and increasing clockwise.
func (g Geometry) CellAngle(col, row int) float64 {
	dx := float64(col - g.CenterX)
	dy := float64(row-g.CenterY) / config.AspectRatio
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// RingChar returns the character for a guide circle at the given angle.
func RingChar(angle float64) rune {
	sector := int(math.Round(angle/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}

	switch sector {
	case 0, 4:
		return '-'
	case 1, 5:
		return '/'
	case 2, 6:
		return '|'
	default:
		return '\\'
	}
}
