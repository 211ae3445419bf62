package theme

import "github.com/charmbracelet/lipgloss"

// Palette is one Catppuccin flavour. Base and Mantle are backgrounds; every
// other colour is drawn on top of them.
type Palette struct {
	Base     lipgloss.Color
	Mantle   lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Lavender lipgloss.Color
	Sapphire lipgloss.Color
	Green    lipgloss.Color
	Peach    lipgloss.Color
	Red      lipgloss.Color
}

var (
	Mocha = Palette{
		Base:     "#1e1e2e",
		Mantle:   "#181825",
		Surface0: "#313244",
		Surface1: "#45475a",
		Text:     "#cdd6f4",
		Subtext0: "#a6adc8",
		Lavender: "#b4befe",
		Sapphire: "#74c7ec",
		Green:    "#a6e3a1",
		Peach:    "#fab387",
		Red:      "#f38ba8",
	}

	Latte = Palette{
		Base:     "#eff1f5",
		Mantle:   "#e6e9ef",
		Surface0: "#ccd0da",
		Surface1: "#bcc0cc",
		Text:     "#4c4f69",
		Subtext0: "#6c6f85",
		Lavender: "#7287fd",
		Sapphire: "#209fb5",
		Green:    "#40a02b",
		Peach:    "#fe640b",
		Red:      "#d20f39",
	}
)

const (
	Dark  = "dark"
	Light = "light"
)

// Theme bundles the styles every page renders with.
type Theme struct {
	Name    string
	Palette Palette

	App        lipgloss.Style
	Bar        lipgloss.Style
	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Title      lipgloss.Style
	Text       lipgloss.Style
	Muted      lipgloss.Style
	Hot        lipgloss.Style
	Good       lipgloss.Style
	Bad        lipgloss.Style
	Selected   lipgloss.Style
}

// New returns the light theme for "light" and the dark one otherwise.
func New(name string) Theme {
	if name == Light {
		return build(Light, Latte)
	}
	return build(Dark, Mocha)
}

func build(name string, p Palette) Theme {
	pane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface1).
		Foreground(p.Text).
		Padding(0, 1)
	return Theme{
		Name:       name,
		Palette:    p,
		App:        lipgloss.NewStyle().Background(p.Base).Foreground(p.Text),
		Bar:        lipgloss.NewStyle().Background(p.Mantle).Foreground(p.Text),
		Pane:       pane,
		PaneActive: pane.BorderForeground(p.Lavender),
		Title:      lipgloss.NewStyle().Foreground(p.Sapphire).Bold(true),
		Text:       lipgloss.NewStyle().Foreground(p.Text),
		Muted:      lipgloss.NewStyle().Foreground(p.Subtext0),
		Hot:        lipgloss.NewStyle().Foreground(p.Peach).Bold(true),
		Good:       lipgloss.NewStyle().Foreground(p.Green),
		Bad:        lipgloss.NewStyle().Foreground(p.Red).Bold(true),
		Selected:   lipgloss.NewStyle().Foreground(p.Lavender).Bold(true),
	}
}
