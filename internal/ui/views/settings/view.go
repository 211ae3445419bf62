package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"planote/internal/platform/config"
	"planote/internal/platform/prefs"
	"planote/internal/ui/theme"
)

// Store persists preferences.
type Store interface {
	Save(p prefs.Prefs) error
}

// ThemeChangedMsg tells the root model to redraw with another theme.
type ThemeChangedMsg struct{ Name string }

type savedMsg struct{ err error }

const (
	optionTheme = iota
	optionRestore
	optionCount
)

type Model struct {
	cfg    config.Config
	store  Store
	prefs  prefs.Prefs
	cursor int
	status string
	width  int
	height int
}

func New(cfg config.Config, p prefs.Prefs, store Store) Model {
	return Model{cfg: cfg, prefs: p, store: store}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Prefs() prefs.Prefs { return m.prefs }

// ToggleTheme flips the theme as if the option had been activated.
func (m Model) ToggleTheme() (Model, tea.Cmd) {
	m.prefs = m.prefs.ToggleTheme()
	return m, tea.Batch(m.saveCmd(), themeCmd(m.prefs.Theme))
}

// SetTheme selects name without toggling.
func (m Model) SetTheme(name string) (Model, tea.Cmd) {
	if name != prefs.ThemeDark && name != prefs.ThemeLight {
		m.status = fmt.Sprintf("unknown theme %q", name)
		return m, nil
	}
	if m.prefs.Theme == name {
		return m, nil
	}
	return m.ToggleTheme()
}

// RememberPage records the page shown last; it is saved on the next write.
func (m *Model) RememberPage(label string) { m.prefs.LastPage = label }

// Persist writes the current preferences.
func (m Model) Persist() error {
	if m.store == nil {
		return nil
	}
	return m.store.Save(m.prefs)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case savedMsg:
		if msg.err != nil {
			m.status = "prefs: " + msg.err.Error()
		} else {
			m.status = "saved"
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.cursor = (m.cursor + optionCount - 1) % optionCount
		case "down", "j":
			m.cursor = (m.cursor + 1) % optionCount
		case "enter", " ":
			if m.cursor == optionTheme {
				return m.ToggleTheme()
			}
			m.prefs.RestoreLastPage = !m.prefs.RestoreLastPage
			return m, m.saveCmd()
		}
	}
	return m, nil
}

func (m Model) View(th theme.Theme) string {
	width := max(20, m.width-6)
	var sb strings.Builder
	sb.WriteString(th.Title.Render("Settings") + "\n\n")

	options := [optionCount]string{
		"Theme               " + m.prefs.Theme,
		"Restore last page   " + onOff(m.prefs.RestoreLastPage),
	}
	for i, o := range options {
		if i == m.cursor {
			sb.WriteString(th.Selected.Render("› "+o) + "\n")
		} else {
			sb.WriteString(th.Text.Render("  "+o) + "\n")
		}
	}

	sb.WriteString("\n" + th.Title.Render("Configuration") + "\n")
	rows := [][2]string{
		{"data dir", m.cfg.DataDir},
		{"database", m.cfg.DBPath},
		{"log", m.cfg.LogPath + " (" + m.cfg.LogLevel + ")"},
		{"prefs", m.cfg.PrefsPath},
		{"pager", fmt.Sprintf("multiplier %d, buffer zone %d", m.cfg.Pager.Multiplier, m.cfg.Pager.BufferZone)},
		{"server", m.cfg.Server.Addr},
	}
	for _, r := range rows {
		line := fmt.Sprintf("%-9s %s", r[0], r[1])
		sb.WriteString(th.Muted.Render(truncate.StringWithTail(line, uint(width), "…")) + "\n")
	}

	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(th.Hot.Render(m.status) + "  ")
	}
	sb.WriteString(th.Muted.Render("↑↓: select  enter: toggle"))
	return th.Pane.Width(max(20, m.width-2)).Height(max(3, m.height-2)).Render(sb.String())
}

func (m Model) saveCmd() tea.Cmd {
	p := m.prefs
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return savedMsg{}
		}
		return savedMsg{err: store.Save(p)}
	}
}

func themeCmd(name string) tea.Cmd {
	return func() tea.Msg { return ThemeChangedMsg{Name: name} }
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
