package server

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"planote/internal/ui/theme"
)

// Control starts and stops the local read-only HTTP API.
type Control interface {
	Start(ctx context.Context) (string, error)
	Stop(ctx context.Context) error
	Running() (addr string, since time.Time, ok bool)
}

type StateMsg struct {
	Addr    string
	Since   time.Time
	Running bool
	Err     error
}

var endpoints = []string{
	"GET /healthz",
	"GET /api/v1/stats?from=YYYY-MM-DD",
	"GET /api/v1/{days|months|years}?from=|before=YYYY-MM-DD",
	"GET /api/v1/{days|months|years}/{id}/tasks",
}

type Model struct {
	ctl    Control
	state  StateMsg
	busy   bool
	width  int
	height int
}

func New(ctl Control) Model {
	return Model{ctl: ctl}
}

func (m Model) Init() tea.Cmd { return m.pollCmd() }

func (m Model) Running() bool { return m.state.Running }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case StateMsg:
		m.busy = false
		m.state = msg
	case tea.KeyMsg:
		if msg.String() == "s" || msg.String() == "enter" {
			if m.state.Running {
				return m.StopCmd()
			}
			return m.StartCmd()
		}
	}
	return m, nil
}

func (m Model) StartCmd() (Model, tea.Cmd) {
	if m.busy || m.ctl == nil {
		return m, nil
	}
	m.busy = true
	ctl := m.ctl
	return m, func() tea.Msg {
		if _, err := ctl.Start(context.Background()); err != nil {
			return StateMsg{Err: err}
		}
		return state(ctl, nil)
	}
}

func (m Model) StopCmd() (Model, tea.Cmd) {
	if m.busy || m.ctl == nil {
		return m, nil
	}
	m.busy = true
	ctl := m.ctl
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return state(ctl, ctl.Stop(ctx))
	}
}

func (m Model) pollCmd() tea.Cmd {
	if m.ctl == nil {
		return nil
	}
	ctl := m.ctl
	return func() tea.Msg { return state(ctl, nil) }
}

func state(ctl Control, err error) StateMsg {
	addr, since, ok := ctl.Running()
	return StateMsg{Addr: addr, Since: since, Running: ok, Err: err}
}

func (m Model) View(th theme.Theme) string {
	var sb strings.Builder
	sb.WriteString(th.Title.Render("Local API") + "\n\n")
	switch {
	case m.ctl == nil:
		sb.WriteString(th.Muted.Render("not available") + "\n")
	case m.busy:
		sb.WriteString(th.Muted.Render("working…") + "\n")
	case m.state.Running:
		sb.WriteString(th.Good.Render("● running") + th.Text.Render(" on http://"+m.state.Addr))
		if !m.state.Since.IsZero() {
			sb.WriteString(th.Muted.Render("  since " + humanize.Time(m.state.Since)))
		}
		sb.WriteString("\n")
	default:
		sb.WriteString(th.Muted.Render("○ stopped") + "\n")
	}
	if m.state.Err != nil {
		sb.WriteString(th.Bad.Render(m.state.Err.Error()) + "\n")
	}
	sb.WriteString("\n" + th.Title.Render("Endpoints") + "\n")
	for _, e := range endpoints {
		sb.WriteString(th.Text.Render("  "+e) + "\n")
	}
	sb.WriteString("\n" + th.Muted.Render("s: start/stop"))
	return th.Pane.Width(max(20, m.width-2)).Height(max(3, m.height-2)).Render(sb.String())
}
