package notes

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	notedto "planote/internal/modules/note/dto"
	"planote/internal/platform/live"
	"planote/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	WatchNotes(ctx context.Context) <-chan live.Result[[]notedto.NoteOutput]
	SaveNote(ctx context.Context, input notedto.NoteInput) (notedto.NoteOutput, error)
	DeleteNote(ctx context.Context, id string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type NotesMsg struct {
	Notes []notedto.NoteOutput
	Err   error
}

type SavedMsg struct {
	Note    notedto.NoteOutput
	Removed bool
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   Port
	stream <-chan live.Result[[]notedto.NoteOutput]

	notes  []notedto.NoteOutput
	cursor int
	status string

	editing bool
	editID  string
	title   textinput.Model
	body    textarea.Model

	preview  viewport.Model
	renderer *glamour.TermRenderer
	style    string
	wrap     int

	width  int
	height int
}

// New subscribes to the note list for the lifetime of ctx.
func New(ctx context.Context, port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "title"
	ti.CharLimit = 200
	ta := textarea.New()
	ta.Placeholder = "markdown body"
	ta.ShowLineNumbers = false
	return Model{
		port:    port,
		stream:  port.WatchNotes(ctx),
		title:   ti,
		body:    ta,
		preview: viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd { return m.waitNotes() }

func (m Model) Capturing() bool { return m.editing }

// Selected returns the highlighted note.
func (m Model) Selected() (notedto.NoteOutput, bool) {
	if m.cursor < len(m.notes) {
		return m.notes[m.cursor], true
	}
	return notedto.NoteOutput{}, false
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case NotesMsg:
		if msg.Err != nil {
			m.status = "notes: " + msg.Err.Error()
		} else {
			m.notes = msg.Notes
			if m.cursor >= len(m.notes) {
				m.cursor = max(0, len(m.notes)-1)
			}
			m.refreshPreview()
		}
		return m, m.waitNotes()

	case SavedMsg:
		switch {
		case msg.Err != nil:
			m.status = "save failed: " + msg.Err.Error()
		case msg.Removed:
			m.status = "note deleted"
		case msg.Note.Deleted:
			m.status = "blank note removed"
		default:
			m.status = "saved " + msg.Note.Title
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditor(msg)
		}
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.refreshPreview()
				m.preview.GotoTop()
			}
		case "down", "j":
			if m.cursor < len(m.notes)-1 {
				m.cursor++
				m.refreshPreview()
				m.preview.GotoTop()
			}
		case "a":
			return m.openEditor(notedto.NoteOutput{})
		case "e", "enter":
			if n, ok := m.Selected(); ok {
				return m.openEditor(n)
			}
		case "d":
			if n, ok := m.Selected(); ok {
				return m, m.deleteCmd(n.ID)
			}
		case "pgdown", "J":
			m.preview.HalfViewDown()
		case "pgup", "K":
			m.preview.HalfViewUp()
		}
	}
	return m, nil
}

func (m Model) openEditor(n notedto.NoteOutput) (Model, tea.Cmd) {
	m.editing = true
	m.editID = n.ID
	m.title.SetValue(n.Title)
	m.body.SetValue(n.Body)
	m.body.Blur()
	return m, m.title.Focus()
}

func (m Model) updateEditor(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.title.Blur()
		m.body.Blur()
		return m, nil
	case "ctrl+s":
		input := notedto.NoteInput{ID: m.editID, Title: m.title.Value(), Body: m.body.Value()}
		m.editing = false
		m.title.Blur()
		m.body.Blur()
		return m, m.saveCmd(input)
	case "tab":
		if m.title.Focused() {
			m.title.Blur()
			return m, m.body.Focus()
		}
		m.body.Blur()
		return m, m.title.Focus()
	}
	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View(th theme.Theme) string {
	listW := max(16, m.width*3/10)
	detailW := max(16, m.width-listW)
	paneH := max(3, m.height-2)

	var list strings.Builder
	list.WriteString(th.Title.Render("Notes") + "\n")
	if len(m.notes) == 0 {
		list.WriteString(th.Muted.Render("no notes, a to add"))
	}
	for i, n := range m.notes {
		line := n.Title
		if line == "" {
			line = "untitled"
		}
		if i == m.cursor {
			list.WriteString(th.Selected.Render("› "+line) + "\n")
		} else {
			list.WriteString(th.Text.Render("  "+line) + "\n")
		}
	}
	left := th.Pane.Width(listW - 2).Height(paneH).Render(list.String())

	var right string
	if m.editing {
		right = th.PaneActive.Width(detailW - 2).Height(paneH).Render(
			th.Title.Render("Edit") + "\n" + m.title.View() + "\n\n" + m.body.View() + "\n" +
				th.Muted.Render("tab: switch field  ctrl+s: save  esc: cancel"))
	} else {
		right = th.Pane.Width(detailW - 2).Height(paneH).Render(m.renderPreview(th))
	}

	status := th.Muted.Render("a: add  e: edit  d: delete  J/K: scroll")
	if m.status != "" {
		status = th.Hot.Render(m.status) + "  " + status
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + status
}

func (m Model) renderPreview(th theme.Theme) string {
	n, ok := m.Selected()
	if !ok {
		return th.Muted.Render("Select a note to preview it")
	}
	header := th.Title.Render(n.Title)
	if !n.UpdatedAt.IsZero() {
		header += th.Muted.Render("  edited " + humanize.Time(n.UpdatedAt))
	}
	return header + "\n" + m.preview.View()
}

// refreshPreview renders the selected note into the preview viewport.
func (m *Model) refreshPreview() {
	n, ok := m.Selected()
	if !ok {
		m.preview.SetContent("")
		return
	}
	body := n.Body
	if m.renderer != nil {
		if out, err := m.renderer.Render(n.Body); err == nil {
			body = out
		}
	}
	m.preview.SetContent(body)
}

func (m *Model) resize() {
	listW := max(16, m.width*3/10)
	detailW := max(16, m.width-listW)
	m.title.Width = max(10, detailW-6)
	m.body.SetWidth(max(10, detailW-4))
	m.body.SetHeight(max(3, m.height-8))
	m.preview.Width = max(1, detailW-4)
	m.preview.Height = max(1, m.height-4)
	m.wrap = max(10, detailW-4)
	m.buildRenderer()
}

// SetTheme switches the markdown style to the named theme.
func (m *Model) SetTheme(name string) {
	if m.style == name {
		return
	}
	m.style = name
	m.buildRenderer()
}

func (m *Model) buildRenderer() {
	style := m.style
	if style == "" {
		style = theme.Dark
	}
	r, err := glamour.NewTermRenderer(glamour.WithStylePath(style), glamour.WithWordWrap(max(10, m.wrap)))
	if err != nil {
		m.renderer = nil
	} else {
		m.renderer = r
	}
	m.refreshPreview()
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) waitNotes() tea.Cmd {
	ch := m.stream
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return NotesMsg{Notes: res.Value, Err: res.Err}
	}
}

func (m Model) saveCmd(input notedto.NoteInput) tea.Cmd {
	return func() tea.Msg {
		note, err := m.port.SaveNote(context.Background(), input)
		return SavedMsg{Note: note, Err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.port.DeleteNote(context.Background(), id)
		return SavedMsg{Note: notedto.NoteOutput{ID: id}, Removed: true, Err: err}
	}
}
