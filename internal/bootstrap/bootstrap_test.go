package bootstrap

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"planote/internal/platform/config"
	"planote/internal/platform/prefs"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Server.Addr = "127.0.0.1:0"
	app, err := New(cfg, hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestAppWiresPlanAndNotesOnOneDatabase(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	ctx := context.Background()

	today := app.PlanCLI.Today()
	entry, err := app.PlanCLI.AddEntry(ctx, "day", "dentist", today)
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if entry.ID == 0 {
		t.Fatalf("entry id must be assigned")
	}
	if _, err := app.PlanCLI.AddTask(ctx, "day", entry.ID, "bring card", ""); err != nil {
		t.Fatalf("add task: %v", err)
	}
	stats, err := app.PlanCLI.Stats(ctx, today)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalTasks != 1 {
		t.Fatalf("total tasks = %d, want 1", stats.TotalTasks)
	}

	note, err := app.NoteCLI.Add(ctx, "groceries", "- milk")
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "export")
	out, err := app.NoteCLI.Export(ctx, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(out.Files) != 1 {
		t.Fatalf("exported %d files, want 1", len(out.Files))
	}
	data, err := os.ReadFile(out.Files[0])
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), note.ID) {
		t.Fatalf("export lacks note id:\n%s", data)
	}

	if _, err := os.Stat(app.Config.DBPath); err != nil {
		t.Fatalf("db file: %v", err)
	}
}

func TestServerStartStop(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	ctx := context.Background()

	addr, err := app.Server.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if again, err := app.Server.Start(ctx); err != nil || again != addr {
		t.Fatalf("second start = %q, %v; want %q", again, err, addr)
	}
	if got, _, ok := app.Server.Running(); !ok || got != addr {
		t.Fatalf("running = %q, %v", got, ok)
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "ok") {
		t.Fatalf("healthz = %d %s", resp.StatusCode, body)
	}

	if err := app.Server.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, _, ok := app.Server.Running(); ok {
		t.Fatalf("server still reports running")
	}
	if err := app.Server.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestServeStopsWithContext(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunServer(ctx, app) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, _, ok := app.Server.Running(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}

func TestPrefsFileSaves(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	store := prefsFile(path)
	if err := store.Save(prefs.Defaults()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("prefs not written: %v", err)
	}
}
