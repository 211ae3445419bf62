package in

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	planout "planote/internal/modules/plan/adapter/out"
	"planote/internal/modules/plan/service"
	"planote/internal/modules/plan/usecase"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/live"
	"planote/internal/platform/tx"
)

func newCLI(t *testing.T) CLIHandler {
	t.Helper()
	store, err := planout.NewSQLiteStore(filepath.Join(t.TempDir(), "planote.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	hub := live.NewHub()
	txm := tx.SQLManager{DB: store.DB()}
	uc := usecase.NewInteractor(
		service.NewPlanService(store, store, txm, hub, nil),
		service.NewWeekService(store, txm, hub, nil),
		hub, stubClock{},
	)
	return NewCLIHandler(uc, uc)
}

func TestCLITaskLifecycle(t *testing.T) {
	t.Parallel()
	h := newCLI(t)
	ctx := context.Background()
	when := time.Date(2026, 12, 1, 0, 0, 0, 0, time.Local)

	entry, err := h.AddEntry(ctx, "month", "December", when)
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	task, err := h.AddTask(ctx, "month", entry.ID, "gifts", "for family")
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	done, err := h.SetTaskDone(ctx, "month", entry.ID, task.ID, true)
	if err != nil || !done.Done || done.Description != "for family" {
		t.Fatalf("done = %+v, err = %v", done, err)
	}
	renamed, err := h.RenameEntry(ctx, "month", entry.ID, "Holidays")
	if err != nil || renamed.Title != "Holidays" || !renamed.Date.Equal(when) {
		t.Fatalf("renamed = %+v, err = %v", renamed, err)
	}
	if _, err := h.SetTaskDone(ctx, "month", entry.ID, 999, true); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("missing task err = %v", err)
	}
	if err := h.RemoveTask(ctx, "month", entry.ID, task.ID); err != nil {
		t.Fatalf("remove task: %v", err)
	}
	if err := h.RemoveEntry(ctx, "month", entry.ID); err != nil {
		t.Fatalf("remove entry: %v", err)
	}
	if _, err := h.AddTask(ctx, "month", entry.ID, "late", ""); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("task on removed entry err = %v", err)
	}
}
