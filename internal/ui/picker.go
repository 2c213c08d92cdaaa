package ui

import (
	"fmt"
	"strings"
)

// RenderPicker renders a scrolling selection list inside a panel, used for
// the topic dropdown.
func RenderPicker(title string, items []string, cursor, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 4 {
		innerH = 4
	}

	lines := []string{
		StylePanelTitle.Render(title),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}
	listSpace := innerH - len(lines) - 1

	viewStart := 0
	if cursor >= listSpace {
		viewStart = cursor - listSpace + 1
	}
	for i := viewStart; i < len(items) && i-viewStart < listSpace; i++ {
		if i == cursor {
			lines = append(lines, StyleCursorLine.Render(truncRaw(">> "+items[i], innerW)))
			continue
		}
		lines = append(lines, StyleTopic.Render(clip("   "+items[i], innerW)))
	}
	for len(lines) < innerH-1 {
		lines = append(lines, "")
	}
	lines = append(lines, StyleHelp.Render(fmt.Sprintf(" %d topics  enter select  esc cancel", len(items))))

	return StylePanelActive.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
}

// RenderPrompt renders a one-line input panel such as the custom color entry.
func RenderPrompt(title, input string, width int) string {
	content := StylePanelTitle.Render(title) + "\n " + input + "\n" +
		StyleHelp.Render(" enter apply  esc cancel")
	return StylePanelActive.Width(width - 2).Render(content)
}
