package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the scope panel and control panel horizontally,
// with the menu bar on top and the timeline, help and status bar below.
func ComposeLayout(menuBar, scopePanel, controlPanel, timeline, help, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, scopePanel, controlPanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, timeline, help, statusBar)
}
