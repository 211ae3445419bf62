package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	notedto "planote/internal/modules/note/dto"
	plandto "planote/internal/modules/plan/dto"
	"planote/internal/platform/config"
	"planote/internal/platform/prefs"
	"planote/internal/ui/components"
	"planote/internal/ui/page"
	"planote/internal/ui/pager"
	"planote/internal/ui/swipe"
	"planote/internal/ui/theme"
	notesview "planote/internal/ui/views/notes"
	plannerview "planote/internal/ui/views/planner"
	serverview "planote/internal/ui/views/server"
	settingsview "planote/internal/ui/views/settings"
	statsview "planote/internal/ui/views/stats"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type planPort interface {
	plannerview.WeekPort
	statsview.Port
	PurgeBefore(ctx context.Context, cutoff time.Time) (plandto.PurgeOutput, error)
}

type notePort interface {
	notesview.Port
	ExportNotes(ctx context.Context, dir string) (notedto.ExportOutput, error)
}

// Deps is everything the root model renders and writes through.
type Deps struct {
	Context    context.Context
	Config     config.Config
	Prefs      prefs.Prefs
	PrefsStore settingsview.Store
	Binder     plannerview.Binder
	Plan       planPort
	Notes      notePort
	Server     serverview.Control
	// Now defaults to time.Now.
	Now func() time.Time
}

// ─── async messages ───────────────────────────────────────────────────────────

type frameMsg time.Time

type purgedMsg struct {
	out plandto.PurgeOutput
	err error
}

type exportedMsg struct {
	out notedto.ExportOutput
	err error
}

const frameInterval = 16 * time.Millisecond

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous page")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. The pager stores which page is shown,
// the switcher animates every change of it, and the page views render.
type Model struct {
	plan  planPort
	notes notePort
	now   func() time.Time

	pager    *pager.Pager
	switcher *swipe.Switcher
	shown    page.Page
	ticking  bool
	drag     bool
	dragX    int

	plannerView  plannerview.Model
	notesView    notesview.Model
	statsView    statsview.Model
	settingsView settingsview.Model
	serverView   serverview.Model

	theme    theme.Theme
	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

func NewModel(deps Deps) (Model, error) {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	pg, err := pager.New(page.Count, deps.Config.Pager.Multiplier, deps.Config.Pager.BufferZone)
	if err != nil {
		return Model{}, fmt.Errorf("pager: %w", err)
	}
	if deps.Prefs.RestoreLastPage {
		if p, ok := page.Parse(deps.Prefs.LastPage); ok {
			pg.GoToLogical(int(p))
		}
	}

	m := Model{
		plan:         deps.Plan,
		notes:        deps.Notes,
		now:          now,
		pager:        pg,
		switcher:     swipe.New(1, pg),
		plannerView:  plannerview.New(deps.Binder, deps.Plan, deps.Plan.Today()),
		notesView:    notesview.New(ctx, deps.Notes),
		statsView:    statsview.New(deps.Plan),
		settingsView: settingsview.New(deps.Config, deps.Prefs, deps.PrefsStore),
		serverView:   serverview.New(deps.Server),
		theme:        theme.New(deps.Prefs.Theme),
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
	m.notesView.SetTheme(m.theme.Name)
	m.shown = m.Current()
	m.settingsView.RememberPage(m.shown.Label())
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.plannerView.Init(),
		m.notesView.Init(),
		m.statsView.Init(),
		m.settingsView.Init(),
		m.serverView.Init(),
	)
}

// Current is the page the pager points at.
func (m Model) Current() page.Page { return page.FromIndex(m.pager.CurrentPage()) }

// Prefs returns the preferences to persist on exit, last page included.
func (m Model) Prefs() prefs.Prefs { return m.settingsView.Prefs() }

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.switcher.Resize(float64(m.width))
		cmd := m.broadcast(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
		return m, cmd

	case frameMsg:
		m.ticking = false
		running := m.switcher.Tick(time.Time(msg))
		cmd := m.pageChanged()
		if running {
			cmd = tea.Batch(cmd, m.ensureTicking())
		}
		return m, cmd

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case settingsview.ThemeChangedMsg:
		m.theme = theme.New(msg.Name)
		m.notesView.SetTheme(m.theme.Name)
		m.status = "theme: " + msg.Name
		return m, nil

	case purgedMsg:
		if msg.err != nil {
			m.status = "purge failed: " + msg.err.Error()
			return m, nil
		}
		var total int64
		for _, n := range msg.out.Removed {
			total += n
		}
		m.status = fmt.Sprintf("purged %d entries", total)
		return m, m.statsView.Refresh()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d notes to %s", len(msg.out.Files), msg.out.Dir)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmd := m.broadcast(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	// Yield to the page while it edits text.
	if m.capturing() {
		cmd := m.updateCurrent(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		cmd := m.palette.Open()
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		cmd := m.request(swipe.Prev)
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		cmd := m.request(swipe.Next)
		return m, cmd
	}
	cmd := m.updateCurrent(msg)
	return m, cmd
}

// handleMouse turns a left-button drag into a swipe gesture, one column per
// pixel.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	now := m.now()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.drag = true
		m.dragX = msg.X
		m.switcher.GestureStart(now)
		return m.pageChanged()
	case tea.MouseActionMotion:
		if !m.drag {
			return nil
		}
		delta := msg.X - m.dragX
		m.dragX = msg.X
		if delta != 0 {
			m.switcher.GestureMove(float64(delta), now)
		}
		return nil
	case tea.MouseActionRelease:
		if !m.drag {
			return nil
		}
		m.drag = false
		m.switcher.GestureEnd(now)
		return tea.Batch(m.pageChanged(), m.ensureTicking())
	}
	return nil
}

// ensureTicking schedules the next frame while an animation runs.
func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	st := m.switcher.State(m.now())
	if st.Phase != swipe.Animating || st.Pending {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// request starts an animated switch; interrupting a running one may commit
// it first.
func (m *Model) request(dir swipe.Direction) tea.Cmd {
	m.switcher.Request(dir, m.now())
	return tea.Batch(m.pageChanged(), m.ensureTicking())
}

// pageChanged reacts to a committed switch.
func (m *Model) pageChanged() tea.Cmd {
	current := m.Current()
	if current == m.shown {
		return nil
	}
	m.shown = current
	m.settingsView.RememberPage(current.Label())
	m.status = current.Label()
	if current == page.Statistics {
		return m.statsView.Refresh()
	}
	return nil
}

// goTo animates to an adjacent page and jumps to any other.
func (m *Model) goTo(target page.Page) tea.Cmd {
	current := m.Current()
	switch target {
	case current:
		return nil
	case current.Next():
		return m.request(swipe.Next)
	case current.Prev():
		return m.request(swipe.Prev)
	}
	m.pager.GoToLogical(int(target))
	return m.pageChanged()
}

func (m Model) capturing() bool {
	switch m.Current() {
	case page.Planner:
		return m.plannerView.Capturing()
	case page.Notes:
		return m.notesView.Capturing()
	}
	return false
}

func (m *Model) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.Current() {
	case page.Planner:
		m.plannerView, cmd = m.plannerView.Update(msg)
	case page.Notes:
		m.notesView, cmd = m.notesView.Update(msg)
	case page.Statistics:
		m.statsView, cmd = m.statsView.Update(msg)
	case page.Settings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case page.Server:
		m.serverView, cmd = m.serverView.Update(msg)
	}
	return cmd
}

// broadcast hands msg to every page; results of background work must reach
// pages that are not shown.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 5)
	m.plannerView, cmds[0] = m.plannerView.Update(msg)
	m.notesView, cmds[1] = m.notesView.Update(msg)
	m.statsView, cmds[2] = m.statsView.Update(msg)
	m.settingsView, cmds[3] = m.settingsView.Update(msg)
	m.serverView, cmds[4] = m.serverView.Update(msg)
	return tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.contentHeight()

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View(m.theme))
	default:
		content = m.renderPages(contentH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderPages(height int) string {
	frame := m.switcher.Frame(m.now())
	current := m.Current()
	if !frame.Visible() {
		return Compose(m.renderPage(current, m.theme), "", frame, m.width, height)
	}
	adjacent := current.Next()
	if frame.Adjacent == swipe.Prev {
		adjacent = current.Prev()
	}
	return Compose(
		m.renderPage(current, m.theme.Faded(fade(frame.CurrentOpacity))),
		m.renderPage(adjacent, m.theme.Faded(fade(frame.AdjacentOpacity))),
		frame, m.width, height,
	)
}

// fade keeps a sliding page legible at its faintest.
func fade(opacity float64) float64 { return 0.35 + 0.65*opacity }

func (m Model) renderPage(p page.Page, th theme.Theme) string {
	switch p {
	case page.Planner:
		return m.plannerView.View(th)
	case page.Notes:
		return m.notesView.View(th)
	case page.Statistics:
		return m.statsView.View(th)
	case page.Settings:
		return m.settingsView.View(th)
	case page.Server:
		return m.serverView.View(th)
	}
	return ""
}

// position is the fractional page on screen, for the indicator.
func (m Model) position() float64 {
	offset := m.switcher.Offset(m.now())
	pos := float64(m.pager.CurrentPage()) - offset/m.switcher.Width()
	return math.Mod(pos+float64(page.Count), float64(page.Count))
}

func (m Model) renderTabBar() string {
	left := m.theme.Hot.Render("planote") + "  " + m.theme.Text.Render(m.Current().Label())
	right := components.Indicator(m.theme, m.position(), false)
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return m.theme.Bar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.serverView.Running() {
		left = m.theme.Good.Render("● api") + "  " + left
	}
	right := m.theme.Muted.Render("←/→:page  ?:help  :::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return m.theme.Bar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) contentHeight() int { return max(1, m.height-2) }

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "goto":
		if len(parts) < 2 {
			m.status = "usage: goto <page>"
			return m, nil
		}
		target, ok := page.Parse(parts[1])
		if !ok {
			m.status = "unknown page: " + parts[1]
			return m, nil
		}
		cmd := m.goTo(target)
		return m, cmd

	case "purge":
		cutoff := m.plan.Today()
		if len(parts) >= 2 {
			parsed, err := time.ParseInLocation(time.DateOnly, parts[1], cutoff.Location())
			if err != nil {
				m.status = "usage: purge [YYYY-MM-DD]"
				return m, nil
			}
			cutoff = parsed
		}
		return m, m.purgeCmd(cutoff)

	case "theme":
		var cmd tea.Cmd
		if len(parts) >= 2 {
			m.settingsView, cmd = m.settingsView.SetTheme(parts[1])
		} else {
			m.settingsView, cmd = m.settingsView.ToggleTheme()
		}
		return m, cmd

	case "server:start":
		var cmd tea.Cmd
		m.serverView, cmd = m.serverView.StartCmd()
		return m, cmd

	case "server:stop":
		var cmd tea.Cmd
		m.serverView, cmd = m.serverView.StopCmd()
		return m, cmd

	case "note:export":
		if len(parts) < 2 {
			m.status = "usage: note:export <dir>"
			return m, nil
		}
		return m, m.exportCmd(strings.TrimSpace(strings.TrimPrefix(input, parts[0])))

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) purgeCmd(cutoff time.Time) tea.Cmd {
	plan := m.plan
	return func() tea.Msg {
		out, err := plan.PurgeBefore(context.Background(), cutoff)
		return purgedMsg{out: out, err: err}
	}
}

func (m Model) exportCmd(dir string) tea.Cmd {
	notes := m.notes
	return func() tea.Msg {
		out, err := notes.ExportNotes(context.Background(), dir)
		return exportedMsg{out: out, err: err}
	}
}
