package render

import (
	"strings"

	"circle-scope.klederson.com/internal/scope"
	"github.com/charmbracelet/lipgloss"
)

// LegendEntry is one row's swatch and caption.
type LegendEntry struct {
	Label string
	Color scope.RGB
}

// Legend produces a centred legend line for the enabled rows.
func Legend(width int, entries []LegendEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.Hex()))
		parts = append(parts, st.Render(PointGlyph+" "+e.Label))
	}
	legend := strings.Join(parts, "  ")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
