package ui

// RenderScopePanel wraps plot content with a styled border.
// The plot itself is rendered by the caller.
func RenderScopePanel(width, height int, plot, legend string, active bool) string {
	content := plot + "\n" + legend
	style := StylePanelBorder
	if active {
		style = StylePanelActive
	}
	return style.Width(width - 2).Height(height - 2).Render(content)
}
