package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	plandto "planote/internal/modules/plan/dto"
	"planote/internal/ui/theme"
)

type Port interface {
	Stats(ctx context.Context, cutoff time.Time) (plandto.StatsOutput, error)
	Today() time.Time
}

type LoadedMsg struct {
	Stats plandto.StatsOutput
	Err   error
}

type Model struct {
	port   Port
	stats  plandto.StatsOutput
	err    error
	loaded bool
	now    func() time.Time
	width  int
	height int
}

func New(port Port) Model {
	return Model{port: port, now: time.Now}
}

func (m Model) Init() tea.Cmd { return m.Refresh() }

// Refresh reloads the counts as of today.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Stats(context.Background(), m.port.Today())
		return LoadedMsg{Stats: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case LoadedMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.stats = msg.Stats
		}
	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.Refresh()
		}
	}
	return m, nil
}

func (m Model) View(th theme.Theme) string {
	var sb strings.Builder
	sb.WriteString(th.Title.Render("Statistics") + "\n\n")
	switch {
	case m.err != nil:
		sb.WriteString(th.Bad.Render("stats: "+m.err.Error()) + "\n")
	case !m.loaded:
		sb.WriteString(th.Muted.Render("counting…") + "\n")
	default:
		sb.WriteString(m.table(th))
		sb.WriteString("\n" + m.summary(th) + "\n")
	}
	sb.WriteString("\n" + th.Muted.Render("r: refresh"))
	return th.Pane.Width(max(20, m.width-2)).Height(max(3, m.height-2)).Render(sb.String())
}

func (m Model) table(th theme.Theme) string {
	var sb strings.Builder
	sb.WriteString(th.Muted.Render(fmt.Sprintf("%-8s %9s %9s %9s", "scale", "upcoming", "past", "tasks")) + "\n")
	for _, s := range m.stats.Scales {
		tasks := fmt.Sprintf("%d/%d", s.TasksDone, s.Tasks)
		sb.WriteString(th.Text.Render(fmt.Sprintf("%-8s %9s %9s %9s",
			s.Scale, humanize.Comma(int64(s.Upcoming)), humanize.Comma(int64(s.Past)), tasks)) + "\n")
	}
	return sb.String()
}

func (m Model) summary(th theme.Theme) string {
	s := m.stats
	text := fmt.Sprintf("%s of %s tasks done", humanize.Comma(int64(s.DoneTasks)), humanize.Comma(int64(s.TotalTasks)))
	if s.TotalTasks > 0 {
		text += fmt.Sprintf(" (%d%%)", s.DoneTasks*100/s.TotalTasks)
	}
	text += "."
	if s.Next != nil {
		title := s.Next.Title
		if title == "" {
			title = "an untitled " + s.Next.Scale
		}
		text += fmt.Sprintf(" Next up is %s on %s, %s.", title, s.Next.Date.Format("Mon 2 Jan 2006"), relative(s.Next.Date, m.now()))
	} else {
		text += " Nothing is planned ahead."
	}
	return th.Text.Render(wordwrap.String(text, max(20, m.width-6)))
}

func relative(date, now time.Time) string {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "today"
	}
	return humanize.RelTime(date, now, "ago", "from now")
}
