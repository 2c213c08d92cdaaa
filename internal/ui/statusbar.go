package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status is the data shown in the bottom status bar.
type Status struct {
	Paused  bool
	Frame   int
	Rows    int
	Points  int
	Extent  float64
	AutoFit bool
	Message string // last warning or error
	IsError bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	state := StyleStatusLive.Render("[LIVE]")
	if s.Paused {
		state = StyleStatusPaused.Render("[PAUSED]")
	}

	fit := "fixed"
	if s.AutoFit {
		fit = "auto"
	}
	info := fmt.Sprintf(" Frame: %d  Rows: %d  Points: %d  Extent: %.0f (%s)",
		s.Frame, s.Rows, s.Points, s.Extent, fit)

	content := state + StyleStatusBar.Render(info)
	if s.Message != "" {
		msgSty := StyleStatusPaused
		if s.IsError {
			msgSty = StyleStatusError
		}
		room := width - 2 - lipgloss.Width(content) - 2
		if room > 3 {
			content += "  " + msgSty.Render(clip(s.Message, room))
		}
	}

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
