// Package render draws scope frames onto a styled terminal cell grid.
package render

import (
	"math"
	"strconv"
	"strings"

	"circle-scope.klederson.com/internal/config"
	"circle-scope.klederson.com/internal/scope"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAxis = lipgloss.Color("#008F11")
	colorRing = lipgloss.Color("#005511")
	colorDot  = lipgloss.Color("#003308")

	styleCenter = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF41")).Bold(true)
	styleAxis   = lipgloss.NewStyle().Foreground(colorAxis)
	styleRing   = lipgloss.NewStyle().Foreground(colorRing)
	styleDot    = lipgloss.NewStyle().Foreground(colorDot)
	styleLabel  = lipgloss.NewStyle().Foreground(colorAxis)
)

// PointGlyph marks a plotted sample.
const PointGlyph = "•"

// Plot produces the scope display for one frame as a styled string of
// height lines. Later points overwrite earlier ones in the same cell.
func Plot(width, height int, f scope.Frame, extent float64) string {
	if width < 10 || height < 5 {
		return ""
	}

	g := NewGeometry(width, height, extent)
	cells := Rasterize(g, f)

	ringRadii := make([]float64, config.RingCount)
	for i := range ringRadii {
		ringRadii[i] = g.Radius * float64(i+1) / float64(config.RingCount)
	}

	label := extentLabel(g.Extent)
	labelCol := g.CenterX + int(g.Radius) - len(label) + 1
	labelRow := g.CenterY + 1

	styles := make(map[scope.RGB]lipgloss.Style)
	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if c, ok := cells[row*width+col]; ok {
				st, seen := styles[c]
				if !seen {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
					styles[c] = st
				}
				sb.WriteString(st.Render(PointGlyph))
				continue
			}
			if row == labelRow && col >= labelCol && col < labelCol+len(label) && labelCol > g.CenterX {
				sb.WriteString(styleLabel.Render(string(label[col-labelCol])))
				continue
			}
			sb.WriteString(renderCell(g, col, row, ringRadii))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Rasterize returns the color of every occupied cell keyed by row*width+col.
func Rasterize(g Geometry, f scope.Frame) map[int]scope.RGB {
	cells := make(map[int]scope.RGB, len(f.Points))
	for i, p := range f.Points {
		col, row, ok := g.ToCell(p)
		if !ok {
			continue
		}
		cells[row*g.Width+col] = f.Colors[i]
	}
	return cells
}

func renderCell(g Geometry, col, row int, ringRadii []float64) string {
	dist := g.CellDistance(col, row)
	if dist > g.Radius+0.5 {
		return " "
	}

	if col == g.CenterX && row == g.CenterY {
		return styleCenter.Render("+")
	}
	if col == g.CenterX {
		return styleAxis.Render("|")
	}
	if row == g.CenterY {
		return styleAxis.Render("-")
	}

	for _, ringR := range ringRadii {
		if math.Abs(dist-ringR) < 0.8 {
			return styleRing.Render(string(RingChar(g.CellAngle(col, row))))
		}
	}
	return styleDot.Render(".")
}

func extentLabel(extent float64) []rune {
	return []rune(strconv.FormatFloat(math.Round(extent), 'f', -1, 64))
}
