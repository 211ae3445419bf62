package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"planote/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

const maxHints = 5

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []string{
	"goto planner",
	"goto notes",
	"goto statistics",
	"goto settings",
	"goto server",
	"purge [YYYY-MM-DD]",
	"theme [dark|light]",
	"server:start",
	"server:stop",
	"note:export <dir>",
}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if hints := MatchHints(p.input.Value()); len(hints) > 0 {
				p.input.SetValue(completion(hints[0]))
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// MatchHints ranks the command hints against input with fuzzy matching.
func MatchHints(input string) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return paletteHints[:maxHints]
	}
	matches := fuzzy.Find(input, paletteHints)
	out := make([]string, 0, maxHints)
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxHints {
			break
		}
	}
	return out
}

// completion keeps the literal words of a hint and drops its placeholders.
func completion(hint string) string {
	var words []string
	for _, w := range strings.Fields(hint) {
		if strings.ContainsAny(w, "[<") {
			break
		}
		words = append(words, w)
	}
	return strings.Join(words, " ") + " "
}

func (p Palette) View(th theme.Theme) string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(th.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if hints := MatchHints(p.input.Value()); len(hints) > 0 {
		sb.WriteString("\n")
		for _, h := range hints {
			sb.WriteString(th.Muted.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return th.PaneActive.
		BorderForeground(th.Palette.Peach).
		Background(th.Palette.Mantle).
		Width(w - 2).
		Render(sb.String())
}
