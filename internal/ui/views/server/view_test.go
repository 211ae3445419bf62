package server

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"planote/internal/ui/theme"
)

type fakeControl struct {
	running  bool
	startErr error
	stops    int
}

func (f *fakeControl) Start(context.Context) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	f.running = true
	return "127.0.0.1:7878", nil
}

func (f *fakeControl) Stop(context.Context) error {
	f.stops++
	f.running = false
	return nil
}

func (f *fakeControl) Running() (string, time.Time, bool) {
	if !f.running {
		return "", time.Time{}, false
	}
	return "127.0.0.1:7878", time.Now(), true
}

func press(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
}

func TestStartStopCycle(t *testing.T) {
	t.Parallel()
	ctl := &fakeControl{}
	m := New(ctl)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(m.Init()())
	if m.Running() {
		t.Fatalf("server must start stopped")
	}

	m, cmd := press(m)
	if _, again := press(m); again != nil {
		t.Fatalf("a second press while busy must be ignored")
	}
	m, _ = m.Update(cmd())
	if !m.Running() {
		t.Fatalf("server not running after start")
	}
	if plain := ansi.Strip(m.View(theme.New(theme.Dark))); !strings.Contains(plain, "http://127.0.0.1:7878") {
		t.Fatalf("address missing:\n%s", plain)
	}

	m, cmd = press(m)
	m, _ = m.Update(cmd())
	if m.Running() || ctl.stops != 1 {
		t.Fatalf("server not stopped: running=%v stops=%d", m.Running(), ctl.stops)
	}
}

func TestStartErrorShown(t *testing.T) {
	t.Parallel()
	m := New(&fakeControl{startErr: errors.New("address in use")})
	m, cmd := m.StartCmd()
	m, _ = m.Update(cmd())
	if m.Running() || !strings.Contains(ansi.Strip(m.View(theme.New(theme.Dark))), "address in use") {
		t.Fatalf("start error not shown")
	}
}
