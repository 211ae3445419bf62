package planner

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	plandto "planote/internal/modules/plan/dto"
	"planote/internal/ui/theme"
)

type fakeBinder struct {
	snap     plandto.Snapshot
	updates  chan plandto.Snapshot
	owners   []int64
	saved    []plandto.EntryInput
	deleted  []plandto.EntryInput
	tasks    []plandto.TaskInput
	delTasks []plandto.TaskInput
	cleared  int
}

func (f *fakeBinder) Snapshot() plandto.Snapshot       { return f.snap }
func (f *fakeBinder) Updates() <-chan plandto.Snapshot { return f.updates }
func (f *fakeBinder) SelectOwner(id int64)             { f.owners = append(f.owners, id) }
func (f *fakeBinder) SaveEntry(e plandto.EntryInput)   { f.saved = append(f.saved, e) }
func (f *fakeBinder) DeleteEntry(e plandto.EntryInput) { f.deleted = append(f.deleted, e) }
func (f *fakeBinder) SaveTask(_ plandto.EntryInput, t plandto.TaskInput) {
	f.tasks = append(f.tasks, t)
}
func (f *fakeBinder) DeleteTask(_ plandto.EntryInput, t plandto.TaskInput) {
	f.delTasks = append(f.delTasks, t)
}
func (f *fakeBinder) ClearError() { f.cleared++ }

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func snapshot() plandto.Snapshot {
	return plandto.Snapshot{
		Days: []plandto.EntryOutput{
			{ID: 1, Scale: "day", Title: "Dentist", Date: today},
			{ID: 2, Scale: "day", Title: "Dinner", Date: today.AddDate(0, 0, 1)},
		},
		Months: []plandto.EntryOutput{{ID: 1, Scale: "month", Title: "Move", Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}},
	}
}

func TestSelectOwnerAndToggleTask(t *testing.T) {
	t.Parallel()
	b := &fakeBinder{snap: snapshot()}
	m := New(b, nil, today)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("enter"))
	if len(b.owners) != 1 || b.owners[0] != 2 {
		t.Fatalf("expected owner 2 selected, got %v", b.owners)
	}

	snap := snapshot()
	snap.SelectedOwner = 2
	snap.DayTasks = []plandto.TaskOutput{{ID: 9, OwnerID: 2, Scale: "day", Title: "book table"}}
	m, _ = m.Update(SnapshotMsg{Snapshot: snap})

	m, _ = m.Update(key("t"))
	m, _ = m.Update(key("x"))
	if len(b.tasks) != 1 || b.tasks[0].ID != 9 || !b.tasks[0].Done {
		t.Fatalf("expected task 9 toggled done, got %+v", b.tasks)
	}
	m, _ = m.Update(key("d"))
	if len(b.delTasks) != 1 || b.delTasks[0].ID != 9 {
		t.Fatalf("expected task 9 deleted, got %+v", b.delTasks)
	}

	plain := ansi.Strip(m.View(theme.New(theme.Dark)))
	if !strings.Contains(plain, "Tasks · Dinner") || !strings.Contains(plain, "book table") {
		t.Fatalf("tasks pane missing:\n%s", plain)
	}
}

func TestAddEntryWithDatePrefix(t *testing.T) {
	t.Parallel()
	b := &fakeBinder{snap: snapshot()}
	m := New(b, nil, today)

	m, _ = m.Update(key("2"))
	m, _ = m.Update(key("a"))
	if !m.Capturing() {
		t.Fatalf("editor must capture keys")
	}
	m = typeText(m, "2024-09-01 Holidays")
	m, _ = m.Update(key("enter"))
	if m.Capturing() {
		t.Fatalf("editor must close on enter")
	}
	if len(b.saved) != 1 {
		t.Fatalf("expected one save, got %+v", b.saved)
	}
	got := b.saved[0]
	if got.Scale != "month" || !got.New || got.Title != "Holidays" || got.Date.Format(time.DateOnly) != "2024-09-01" {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestRenameToBlankSavesEmptyTitle(t *testing.T) {
	t.Parallel()
	b := &fakeBinder{snap: snapshot()}
	m := New(b, nil, today)
	m, _ = m.Update(key("r"))
	for range "Dentist" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = m.Update(key("enter"))
	if len(b.saved) != 1 || b.saved[0].ID != 1 || b.saved[0].Title != "" || b.saved[0].New {
		t.Fatalf("expected blank rename of entry 1, got %+v", b.saved)
	}
}

func TestErrorBannerDismiss(t *testing.T) {
	t.Parallel()
	snap := snapshot()
	snap.Err = "DB: Day adding error: disk full"
	b := &fakeBinder{snap: snap}
	m := New(b, nil, today)
	if plain := ansi.Strip(m.View(theme.New(theme.Light))); !strings.Contains(plain, "disk full") {
		t.Fatalf("error banner missing:\n%s", plain)
	}
	m, _ = m.Update(key("esc"))
	if b.cleared != 1 {
		t.Fatalf("esc must clear the error")
	}
}

func TestDefaultDateAndParse(t *testing.T) {
	t.Parallel()
	if got := DefaultDate("month", today); got.Day() != 1 || got.Month() != time.June {
		t.Fatalf("month default %v", got)
	}
	if got := DefaultDate("year", today); got.YearDay() != 1 {
		t.Fatalf("year default %v", got)
	}
	date, title := ParseEntryInput("  Plain title ", today)
	if !date.Equal(today) || title != "Plain title" {
		t.Fatalf("unexpected parse %v %q", date, title)
	}
}
