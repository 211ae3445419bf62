package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	noteout "planote/internal/modules/note/adapter/out"
	"planote/internal/modules/note/dto"
	"planote/internal/modules/note/service"
	"planote/internal/modules/note/usecase"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/id"
	"planote/internal/platform/live"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newInteractor(t *testing.T) (*usecase.Interactor, *live.Hub) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	store, err := noteout.NewSQLiteNoteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("note store: %v", err)
	}
	hub := live.NewHub()
	clk := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := service.NewNoteService(store, noteout.MarkdownExporter{}, id.UUID{}, clk, hub, nil)
	return usecase.NewInteractor(svc, hub), hub
}

func TestNotesLifecycle(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	ctx := context.Background()

	first, err := uc.SaveNote(ctx, dto.NoteInput{Title: "First", Body: "one"})
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := uc.SaveNote(ctx, dto.NoteInput{Title: "Second", Body: "two"})
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	notes, err := uc.ListNotes(ctx)
	if err != nil || len(notes) != 2 || notes[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v err=%v", notes, err)
	}

	got, err := uc.GetNote(ctx, first.ID)
	if err != nil || got.Body != "one" {
		t.Fatalf("get: %+v err=%v", got, err)
	}

	blanked, err := uc.SaveNote(ctx, dto.NoteInput{ID: first.ID})
	if err != nil || !blanked.Deleted {
		t.Fatalf("blank save must delete: %+v err=%v", blanked, err)
	}
	if _, err := uc.GetNote(ctx, first.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	out, err := uc.ExportNotes(ctx, filepath.Join(t.TempDir(), "md"))
	if err != nil || len(out.Files) != 1 || filepath.Base(out.Files[0]) != "second.md" {
		t.Fatalf("unexpected export %+v err=%v", out, err)
	}
}

func TestWatchNotesReloadsAfterSave(t *testing.T) {
	t.Parallel()
	uc, hub := newInteractor(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := uc.WatchNotes(ctx)
	next := func() live.Result[[]dto.NoteOutput] {
		select {
		case r := <-stream:
			return r
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notes")
		}
		return live.Result[[]dto.NoteOutput]{}
	}
	if r := next(); r.Err != nil || len(r.Value) != 0 {
		t.Fatalf("unexpected initial emission %+v", r)
	}
	if _, err := uc.SaveNote(context.Background(), dto.NoteInput{Title: "Live"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if r := next(); len(r.Value) != 1 || r.Value[0].Title != "Live" {
		t.Fatalf("expected reloaded list, got %+v", r)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("subscription not released")
	}
}
