package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTimeline renders the scrub slider. Position 0 is the newest data
// and sits at the right end of the bar.
func RenderTimeline(width, slider, sliderMax, stride int, paused bool) string {
	label := fmt.Sprintf(" %d/%d x%d ", slider, sliderMax, stride)
	barWidth := width - len(label) - 4
	if barWidth < 10 {
		barWidth = 10
	}

	ratio := 0.0
	if sliderMax > 0 {
		ratio = float64(slider) / float64(sliderMax)
	}
	knob := barWidth - 1 - int(ratio*float64(barWidth-1)+0.5)

	bar := []byte(strings.Repeat("-", barWidth))
	bar[knob] = '|'

	knobColor := ColorPhosphor
	if paused {
		knobColor = ColorWarning
	}
	before := StyleHelp.Render(string(bar[:knob]))
	knobStr := lipgloss.NewStyle().Foreground(knobColor).Bold(true).Render("|")
	after := lipgloss.NewStyle().Foreground(ColorMidGreen).Render(string(bar[knob+1:]))

	return " " + StyleHelp.Render("[") + before + knobStr + after + StyleHelp.Render("]") + StyleAxisLabel.Render(label)
}

// Sparkline draws the last width values scaled between their min and max.
func Sparkline(values []int, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rng := float64(maxV - minV)
	if rng < 1 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int(float64(v-minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}
