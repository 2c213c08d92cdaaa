package scope

import (
	"circle-scope.klederson.com/internal/series"
)

// Point is one plotted sample in fixed-point units.
type Point struct {
	X, Y int
}

// Frame is one paint's worth of points with a parallel color slice.
type Frame struct {
	Points []Point
	Colors []RGB
}

// Len returns the number of points.
func (f Frame) Len() int {
	return len(f.Points)
}

// BuildFrame collects the display window of every enabled row, in row
// order. An unbound axis of an enabled pair reads as zero. The older half
// of each window uses the pair's raw color and the newer half its primary color.
// Frozen pairs are read from their snapshot.
func BuildFrame(rows *Rows, m series.Mapper, displayFrame int) Frame {
	var f Frame
	start := m.WindowStart(displayFrame)
	w := m.Window

	rows.Each(func(_ RowID, p *Pair) {
		if !p.Enabled() {
			return
		}
		xs := p.Window(AxisX, start, w)
		ys := p.Window(AxisY, start, w)
		color, raw := p.Color(), p.Raw()

		for i := 0; i < w; i++ {
			idx := m.AbsoluteIndex(i, displayFrame) - start
			f.Points = append(f.Points, Point{X: xs[idx], Y: ys[idx]})
			if i < w/2 {
				f.Colors = append(f.Colors, raw)
			} else {
				f.Colors = append(f.Colors, color)
			}
		}
	})
	return f
}
