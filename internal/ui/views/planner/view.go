package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plandto "planote/internal/modules/plan/dto"
	"planote/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

// Binder is the reactive planner state the page renders and writes through.
type Binder interface {
	Snapshot() plandto.Snapshot
	Updates() <-chan plandto.Snapshot
	SelectOwner(ownerID int64)
	SaveEntry(entry plandto.EntryInput)
	DeleteEntry(entry plandto.EntryInput)
	SaveTask(owner plandto.EntryInput, task plandto.TaskInput)
	DeleteTask(owner plandto.EntryInput, task plandto.TaskInput)
	ClearError()
}

type WeekPort interface {
	ActiveWeek(ctx context.Context) (plandto.ActiveWeekOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SnapshotMsg struct{ Snapshot plandto.Snapshot }

type WeekLoadedMsg struct {
	Week plandto.ActiveWeekOutput
	Err  error
}

// ─── model ───────────────────────────────────────────────────────────────────

var scales = [3]string{"day", "month", "year"}

const taskColumn = len(scales)

type editKind int

const (
	editNone editKind = iota
	editNewEntry
	editRenameEntry
	editNewTask
	editRenameTask
)

type Model struct {
	binder Binder
	weeks  WeekPort
	today  time.Time

	snap       plandto.Snapshot
	week       plandto.ActiveWeekOutput
	ownerScale string

	focus  int
	cursor [taskColumn + 1]int

	edit  editKind
	input textinput.Model

	width  int
	height int
}

func New(binder Binder, weeks WeekPort, today time.Time) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	return Model{
		binder: binder,
		weeks:  weeks,
		today:  today,
		snap:   binder.Snapshot(),
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitSnapshot(), m.loadWeekCmd())
}

// Capturing reports whether typed keys belong to the inline editor.
func (m Model) Capturing() bool { return m.edit != editNone }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.clampCursors()
		return m, m.waitSnapshot()

	case WeekLoadedMsg:
		if msg.Err == nil {
			m.week = msg.Week
		}
		return m, nil

	case tea.KeyMsg:
		if m.edit != editNone {
			return m.updateEditor(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.focus = (m.focus + 1) % (taskColumn + 1)
	case "shift+tab":
		m.focus = (m.focus + taskColumn) % (taskColumn + 1)
	case "1", "2", "3":
		m.focus = int(msg.String()[0] - '1')
	case "t":
		m.focus = taskColumn
	case "up", "k":
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
	case "down", "j":
		if m.cursor[m.focus] < m.columnLen(m.focus)-1 {
			m.cursor[m.focus]++
		}
	case "enter":
		if m.focus < taskColumn {
			if e, ok := m.selectedEntry(); ok {
				m.ownerScale = e.Scale
				m.cursor[taskColumn] = 0
				m.binder.SelectOwner(e.ID)
			}
		}
	case "x", " ":
		if t, ok := m.selectedTask(); ok {
			if owner, found := m.owner(); found {
				m.binder.SaveTask(owner, plandto.TaskInput{ID: t.ID, Title: t.Title, Description: t.Description, Done: !t.Done})
			}
		}
	case "a":
		if m.focus == taskColumn {
			if _, ok := m.owner(); !ok {
				return m, nil
			}
			return m.openEditor(editNewTask, "", "new task")
		}
		return m.openEditor(editNewEntry, "", "[YYYY-MM-DD] title")
	case "r":
		if m.focus == taskColumn {
			if t, ok := m.selectedTask(); ok {
				return m.openEditor(editRenameTask, t.Title, "task title")
			}
			return m, nil
		}
		if e, ok := m.selectedEntry(); ok {
			return m.openEditor(editRenameEntry, e.Title, "title (empty deletes)")
		}
	case "d":
		m.deleteSelected()
	case "esc":
		if m.snap.Err != "" {
			m.binder.ClearError()
		}
	}
	return m, nil
}

func (m Model) openEditor(kind editKind, value, placeholder string) (Model, tea.Cmd) {
	m.edit = kind
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateEditor(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.edit = editNone
		m.input.Blur()
		return m, nil
	case "enter":
		m.commitEdit(m.input.Value())
		m.edit = editNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitEdit(value string) {
	switch m.edit {
	case editNewEntry:
		scale := scales[m.focus]
		date, title := ParseEntryInput(value, DefaultDate(scale, m.today))
		m.binder.SaveEntry(plandto.EntryInput{Scale: scale, Title: title, Date: date, New: true})
	case editRenameEntry:
		if e, ok := m.selectedEntry(); ok {
			// A blank title removes the stored entry.
			m.binder.SaveEntry(plandto.EntryInput{ID: e.ID, Scale: e.Scale, Title: strings.TrimSpace(value), Date: e.Date})
		}
	case editNewTask:
		if owner, ok := m.owner(); ok && strings.TrimSpace(value) != "" {
			m.binder.SaveTask(owner, plandto.TaskInput{Title: strings.TrimSpace(value), New: true})
		}
	case editRenameTask:
		if owner, ok := m.owner(); ok {
			if t, found := m.selectedTask(); found {
				m.binder.SaveTask(owner, plandto.TaskInput{ID: t.ID, Title: strings.TrimSpace(value), Description: t.Description, Done: t.Done})
			}
		}
	}
}

func (m *Model) deleteSelected() {
	if m.focus == taskColumn {
		owner, ok := m.owner()
		t, found := m.selectedTask()
		if ok && found {
			m.binder.DeleteTask(owner, plandto.TaskInput{ID: t.ID, Title: t.Title})
		}
		return
	}
	if e, ok := m.selectedEntry(); ok {
		if e.ID == m.snap.SelectedOwner && e.Scale == m.ownerScale {
			m.binder.SelectOwner(0)
		}
		m.binder.DeleteEntry(plandto.EntryInput{ID: e.ID, Scale: e.Scale, Title: e.Title, Date: e.Date})
	}
}

// ─── selection ───────────────────────────────────────────────────────────────

func (m Model) columnLen(col int) int {
	if col == taskColumn {
		return len(m.tasks())
	}
	return len(m.snap.Entries(scales[col]))
}

func (m *Model) clampCursors() {
	for col := range m.cursor {
		n := m.columnLen(col)
		if m.cursor[col] >= n {
			m.cursor[col] = max(0, n-1)
		}
	}
}

func (m Model) selectedEntry() (plandto.EntryOutput, bool) {
	if m.focus >= taskColumn {
		return plandto.EntryOutput{}, false
	}
	entries := m.snap.Entries(scales[m.focus])
	if i := m.cursor[m.focus]; i < len(entries) {
		return entries[i], true
	}
	return plandto.EntryOutput{}, false
}

func (m Model) tasks() []plandto.TaskOutput {
	if m.ownerScale == "" || m.snap.SelectedOwner <= 0 {
		return nil
	}
	return m.snap.Tasks(m.ownerScale)
}

func (m Model) selectedTask() (plandto.TaskOutput, bool) {
	tasks := m.tasks()
	if i := m.cursor[taskColumn]; i < len(tasks) {
		return tasks[i], true
	}
	return plandto.TaskOutput{}, false
}

// owner is the entry whose tasks are shown, as an input for task writes.
func (m Model) owner() (plandto.EntryInput, bool) {
	if m.ownerScale == "" || m.snap.SelectedOwner <= 0 {
		return plandto.EntryInput{}, false
	}
	for _, e := range m.snap.Entries(m.ownerScale) {
		if e.ID == m.snap.SelectedOwner {
			return plandto.EntryInput{ID: e.ID, Scale: e.Scale, Title: e.Title, Date: e.Date}, true
		}
	}
	return plandto.EntryInput{}, false
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View(th theme.Theme) string {
	header := th.Title.Render("Today ") + th.Text.Render(m.today.Format("Monday, 2 January 2006"))
	if m.week.Found {
		header += th.Muted.Render(fmt.Sprintf("   week: %s (%d days)", m.week.Week.Title, len(m.week.Days)))
	}
	lines := []string{header}
	if m.snap.Err != "" {
		lines = append(lines, th.Bad.Render(m.snap.Err)+th.Muted.Render("  esc: dismiss"))
	}
	if m.edit != editNone {
		lines = append(lines, th.Hot.Render("› ")+m.input.View())
	}
	footer := th.Muted.Render("tab/1-3/t: column  ↑↓: move  enter: tasks  a: add  r: rename  d: delete  x: done")

	used := len(lines) + 1
	paneH := max(3, m.height-used-2)
	colW := max(12, m.width/(taskColumn+1))

	cols := make([]string, 0, taskColumn+1)
	for i, scale := range scales {
		cols = append(cols, m.renderColumn(th, i, scaleTitle(scale), m.entryLines(th, i, scale), colW, paneH))
	}
	cols = append(cols, m.renderColumn(th, taskColumn, m.taskTitle(), m.taskLines(th), m.width-colW*taskColumn, paneH))

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cols...), footer)
	return strings.Join(lines, "\n")
}

func (m Model) renderColumn(th theme.Theme, col int, title string, body []string, width, height int) string {
	style := th.Pane
	if col == m.focus {
		style = th.PaneActive
	}
	inner := max(1, height-1)
	if len(body) > inner {
		start := min(max(0, m.cursor[col]-inner+1), len(body)-inner)
		body = body[start : start+inner]
	}
	content := th.Title.Render(title) + "\n" + strings.Join(body, "\n")
	return style.Width(max(4, width-2)).Height(height).Render(content)
}

func (m Model) entryLines(th theme.Theme, col int, scale string) []string {
	entries := m.snap.Entries(scale)
	if len(entries) == 0 {
		if m.snap.Loading {
			return []string{th.Muted.Render("loading…")}
		}
		return []string{th.Muted.Render("nothing planned")}
	}
	out := make([]string, 0, len(entries))
	for i, e := range entries {
		line := FormatDate(scale, e.Date) + "  " + e.Title
		switch {
		case col == m.focus && i == m.cursor[col]:
			line = th.Selected.Render("› " + line)
		case e.ID == m.snap.SelectedOwner && scale == m.ownerScale:
			line = th.Hot.Render("• " + line)
		default:
			line = th.Text.Render("  " + line)
		}
		out = append(out, line)
	}
	return out
}

func (m Model) taskTitle() string {
	if owner, ok := m.owner(); ok {
		title := owner.Title
		if title == "" {
			title = FormatDate(owner.Scale, owner.Date)
		}
		return "Tasks · " + title
	}
	return "Tasks"
}

func (m Model) taskLines(th theme.Theme) []string {
	if _, ok := m.owner(); !ok {
		return []string{th.Muted.Render("select an entry with enter")}
	}
	tasks := m.tasks()
	if len(tasks) == 0 {
		return []string{th.Muted.Render("no tasks, a to add")}
	}
	out := make([]string, 0, len(tasks))
	for i, t := range tasks {
		box := "[ ] "
		style := th.Text
		if t.Done {
			box = "[x] "
			style = th.Good
		}
		line := box + t.Title
		if m.focus == taskColumn && i == m.cursor[taskColumn] {
			out = append(out, th.Selected.Render("› "+line))
			continue
		}
		out = append(out, style.Render("  "+line))
	}
	return out
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) waitSnapshot() tea.Cmd {
	ch := m.binder.Updates()
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func (m Model) loadWeekCmd() tea.Cmd {
	if m.weeks == nil {
		return nil
	}
	return func() tea.Msg {
		week, err := m.weeks.ActiveWeek(context.Background())
		return WeekLoadedMsg{Week: week, Err: err}
	}
}
