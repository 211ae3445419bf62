package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// fadeSteps quantises opacity so a sliding page reuses a handful of themes.
const fadeSteps = 16

// Blend mixes fg towards bg; opacity 1 keeps fg, 0 yields bg. Colours that
// are not hex strings are returned unchanged.
func Blend(fg, bg lipgloss.Color, opacity float64) lipgloss.Color {
	f, err := colorful.Hex(string(fg))
	if err != nil {
		return fg
	}
	b, err := colorful.Hex(string(bg))
	if err != nil {
		return fg
	}
	opacity = math.Max(0, math.Min(1, opacity))
	return lipgloss.Color(b.BlendLab(f, opacity).Clamped().Hex())
}

// Faded blends every foreground colour towards Base.
func (p Palette) Faded(opacity float64) Palette {
	out := p
	for _, c := range []*lipgloss.Color{
		&out.Surface0, &out.Surface1, &out.Text, &out.Subtext0,
		&out.Lavender, &out.Sapphire, &out.Green, &out.Peach, &out.Red,
	} {
		*c = Blend(*c, p.Base, opacity)
	}
	return out
}

// Faded returns t drawn at opacity.
func (t Theme) Faded(opacity float64) Theme {
	q := math.Round(math.Max(0, math.Min(1, opacity))*fadeSteps) / fadeSteps
	if q >= 1 {
		return t
	}
	return build(t.Name, t.Palette.Faded(q))
}
