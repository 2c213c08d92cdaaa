package ui

import (
	"fmt"
	"strings"

	"circle-scope.klederson.com/internal/scope"
	"github.com/charmbracelet/lipgloss"
)

// RowView is what the control panel shows for one row.
type RowView struct {
	X, Y      string
	Color     scope.RGB
	ColorName string // empty for custom colors
	LastX     int
	HasX      bool
	LastY     int
	HasY      bool
}

// Selected carries the recent history of the cursor row for the sparklines.
type Selected struct {
	HistoryX []int
	HistoryY []int
}

const linesPerRow = 4 // header, X, Y, blank

// RenderControlPanel renders the row list with cursor and the selected row's
// sparklines. The title stays fixed at the top; only the rows scroll.
func RenderControlPanel(rows []RowView, sel Selected, width, height, cursor int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("ROWS [%d]", len(rows)))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	footerLines := []string{
		separator,
		StyleAxisLabel.Render(" X ") + StyleValue.Render(Sparkline(sel.HistoryX, innerW-4)),
		StyleAxisLabel.Render(" Y ") + StyleValue.Render(Sparkline(sel.HistoryY, innerW-4)),
	}

	innerH := height - 2
	if innerH < len(headerLines)+len(footerLines)+1 {
		innerH = len(headerLines) + len(footerLines) + 1
	}
	rowSpace := innerH - len(headerLines) - len(footerLines)

	maxVisible := rowSpace / linesPerRow
	if maxVisible < 1 {
		maxVisible = 1
	}
	viewStart := 0
	if cursor >= maxVisible {
		viewStart = cursor - maxVisible + 1
	}

	var rowLines []string
	for i := viewStart; i < len(rows) && len(rowLines) < rowSpace; i++ {
		rowLines = append(rowLines, renderRowEntry(i, rows[i], innerW, i == cursor)...)
	}
	if len(rowLines) > rowSpace {
		rowLines = rowLines[:rowSpace]
	}
	for len(rowLines) < rowSpace {
		rowLines = append(rowLines, "")
	}

	all := make([]string, 0, innerH)
	all = append(all, headerLines...)
	all = append(all, rowLines...)
	all = append(all, footerLines...)

	content := strings.Join(all, "\n")
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(content)

	// lipgloss Height() only sets a minimum; clamp to exactly height lines.
	outLines := strings.Split(rendered, "\n")
	if len(outLines) > height {
		outLines = outLines[:height]
	}
	for len(outLines) < height {
		outLines = append(outLines, "")
	}
	return strings.Join(outLines, "\n")
}

func renderRowEntry(i int, r RowView, maxW int, isCursor bool) []string {
	colorName := r.ColorName
	if colorName == "" {
		colorName = r.Color.Hex()
	}

	cursor := "  "
	if isCursor {
		cursor = ">>"
	}

	rawHeader := truncRaw(fmt.Sprintf("%s Row %d [%s]", cursor, i+1, colorName), maxW-2)
	rawX := truncRaw(fmt.Sprintf("   X: %s  %s", r.X, FormatValue(r.LastX, r.HasX)), maxW)
	rawY := truncRaw(fmt.Sprintf("   Y: %s  %s", r.Y, FormatValue(r.LastY, r.HasY)), maxW)

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color.Hex())).Render("● ")
	if isCursor {
		return []string{
			swatch + StyleCursorLine.Render(rawHeader),
			StyleCursorLine.Render(rawX),
			StyleCursorLine.Render(rawY),
			"",
		}
	}

	return []string{
		swatch + StyleTopic.Render(rawHeader),
		renderAxisLine("X", r.X, r.LastX, r.HasX, maxW),
		renderAxisLine("Y", r.Y, r.LastY, r.HasY, maxW),
		"",
	}
}

func renderAxisLine(axis, topic string, last int, has bool, maxW int) string {
	value := FormatValue(last, has)
	topicMax := maxW - 8 - len(value)
	if topicMax < 4 {
		topicMax = 4
	}
	topic = clip(topic, topicMax)

	topicSty := StyleTopic
	if !has {
		topicSty = StyleTopicNone
	}
	return "   " + StyleAxisLabel.Render(axis+":") + " " + topicSty.Render(topic) + "  " + StyleValue.Render(value)
}

// FormatValue renders a stored sample as decimal and hex, or "-" when the
// axis is unbound.
func FormatValue(v int, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d / 0x%.4X", v, v)
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if w < 0 {
		w = 0
	}
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

// clip truncates s to at most w characters.
func clip(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w])
}
