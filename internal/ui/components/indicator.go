package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"planote/internal/ui/page"
	"planote/internal/ui/theme"
)

// Indicator draws one dot per page. position is the fractional page being
// shown, so dots grow and brighten as a sliding page approaches them.
func Indicator(th theme.Theme, position float64, labels bool) string {
	parts := make([]string, 0, page.Count)
	for _, p := range page.All() {
		d := math.Min(1, page.CyclicDistance(position, float64(p), page.Count))
		glyph := "·"
		switch {
		case d < 0.35:
			glyph = "●"
		case d < 0.75:
			glyph = "•"
		}
		color := theme.Blend(th.Palette.Lavender, th.Palette.Surface1, 1-d)
		cell := glyph
		if labels && d < 0.5 {
			cell += " " + p.Label()
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(color).Render(cell))
	}
	return strings.Join(parts, " ")
}
