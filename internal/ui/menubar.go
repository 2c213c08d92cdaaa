package ui

import (
	"fmt"
	"strings"

	"circle-scope.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, sourceName string, paused bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"P", "lay/pause"},
		{"A", "dd row"},
		{"R", "efresh"},
		{"?", "help"},
		{"Q", "uit"},
	}

	var menu strings.Builder
	for _, k := range keys {
		menu.WriteString("  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label))
	}

	status := StyleStatusLive.Render("LIVE")
	if paused {
		status = StyleStatusPaused.Render("PAUSED")
	}

	sourceInfo := StyleMenuLabel.Render(fmt.Sprintf("Source: %s", sourceName))

	left := StyleMenuKey.Render(title) + menu.String()
	right := status + "  " + sourceInfo + " "

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
