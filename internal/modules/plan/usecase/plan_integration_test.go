package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	planout "planote/internal/modules/plan/adapter/out"
	"planote/internal/modules/plan/dto"
	"planote/internal/modules/plan/service"
	"planote/internal/modules/plan/usecase"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/live"
	"planote/internal/platform/tx"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local)

func newInteractor(t *testing.T) (*usecase.Interactor, *live.Hub) {
	t.Helper()
	store, err := planout.NewSQLiteStore(filepath.Join(t.TempDir(), "data", "planote.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	hub := live.NewHub()
	txm := tx.SQLManager{DB: store.DB()}
	svc := service.NewPlanService(store, store, txm, hub, nil)
	weeks := service.NewWeekService(store, txm, hub, nil)
	return usecase.NewInteractor(svc, weeks, hub, fixedClock{now: today.Add(15 * time.Hour)}), hub
}

func day(offset int) time.Time { return today.AddDate(0, 0, offset) }

func TestEntriesSplitAtCutoff(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	ctx := context.Background()
	for _, in := range []dto.EntryInput{
		{Scale: "day", Title: "later", Date: day(5), New: true},
		{Scale: "day", Title: "today", Date: day(0), New: true},
		{Scale: "day", Title: "yesterday", Date: day(-1), New: true},
		{Scale: "month", Title: "other scale", Date: day(1), New: true},
	} {
		if _, err := uc.SaveEntry(ctx, in); err != nil {
			t.Fatalf("save %q: %v", in.Title, err)
		}
	}
	if !uc.Today().Equal(today) {
		t.Fatalf("Today() = %v, want %v", uc.Today(), today)
	}

	upcoming, err := uc.ListEntries(ctx, dto.ListEntriesInput{Scale: "day", Cutoff: uc.Today()})
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].Title != "today" || upcoming[1].Title != "later" {
		t.Fatalf("upcoming = %+v", upcoming)
	}
	past, err := uc.ListEntries(ctx, dto.ListEntriesInput{Scale: "day", Cutoff: uc.Today(), Before: true})
	if err != nil {
		t.Fatalf("list past: %v", err)
	}
	if len(past) != 1 || past[0].Title != "yesterday" {
		t.Fatalf("past = %+v", past)
	}
	if _, err := uc.ListEntries(ctx, dto.ListEntriesInput{Scale: "decade"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("bad scale err = %v", err)
	}
}

func TestBlankTitleDeletesStoredEntryAndCascades(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	ctx := context.Background()
	saved, err := uc.SaveTask(ctx, dto.SaveTaskInput{
		Owner: dto.EntryInput{Scale: "month", Title: "Move", Date: day(10), New: true},
		Task:  dto.TaskInput{Title: "boxes", New: true},
	})
	if err != nil {
		t.Fatalf("save task: %v", err)
	}
	if saved.Owner.ID == 0 || saved.Task.OwnerID != saved.Owner.ID {
		t.Fatalf("owner id not propagated: %+v", saved)
	}
	tasks, err := uc.ListTasks(ctx, "month", saved.Owner.ID)
	if err != nil || len(tasks) != 1 || tasks[0].Title != "boxes" {
		t.Fatalf("tasks = %+v, err = %v", tasks, err)
	}

	if _, err := uc.SaveEntry(ctx, dto.EntryInput{ID: saved.Owner.ID, Scale: "month", Title: "   ", Date: day(10)}); err != nil {
		t.Fatalf("clear title: %v", err)
	}
	entries, _ := uc.ListEntries(ctx, dto.ListEntriesInput{Scale: "month", Cutoff: day(-100)})
	if len(entries) != 0 {
		t.Fatalf("entry with cleared title survived: %+v", entries)
	}
	tasks, _ = uc.ListTasks(ctx, "month", saved.Owner.ID)
	if len(tasks) != 0 {
		t.Fatalf("tasks must cascade with their owner: %+v", tasks)
	}
}

func TestNewBlankEntryIsStored(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	ctx := context.Background()
	out, err := uc.SaveEntry(ctx, dto.EntryInput{Scale: "year", Date: day(30), New: true})
	if err != nil || out.ID == 0 {
		t.Fatalf("save = %+v, %v", out, err)
	}
	entries, _ := uc.ListEntries(ctx, dto.ListEntriesInput{Scale: "year", Cutoff: today})
	if len(entries) != 1 || entries[0].Title != "" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestToggleTaskDone(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	ctx := context.Background()
	saved, err := uc.SaveTask(ctx, dto.SaveTaskInput{
		Owner: dto.EntryInput{Scale: "day", Title: "Errands", Date: day(1), New: true},
		Task:  dto.TaskInput{Title: "post office", New: true},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	owner := dto.EntryInput{ID: saved.Owner.ID, Scale: "day", Title: "Errands", Date: day(1)}
	if _, err := uc.SaveTask(ctx, dto.SaveTaskInput{Owner: owner, Task: dto.TaskInput{ID: saved.Task.ID, Title: "post office", Done: true}}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	tasks, _ := uc.ListTasks(ctx, "day", saved.Owner.ID)
	if len(tasks) != 1 || !tasks[0].Done {
		t.Fatalf("tasks = %+v", tasks)
	}
	if err := uc.DeleteTask(ctx, dto.SaveTaskInput{Owner: owner, Task: dto.TaskInput{ID: saved.Task.ID}}); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	tasks, _ = uc.ListTasks(ctx, "day", saved.Owner.ID)
	if len(tasks) != 0 {
		t.Fatalf("task not deleted: %+v", tasks)
	}
}

func TestUpdateOfMissingEntryIsNotFound(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	_, err := uc.SaveEntry(context.Background(), dto.EntryInput{ID: 42, Scale: "day", Title: "ghost", Date: today})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := uc.GetEntry(context.Background(), "day", 42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("get err = %v, want not found", err)
	}
}

func TestWatchEntriesReloadsOnWrite(t *testing.T) {
	t.Parallel()
	uc, hub := newInteractor(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := uc.WatchEntriesFrom(ctx, "day", today)
	first := next(t, stream)
	if first.Err != nil || len(first.Value) != 0 {
		t.Fatalf("first emission = %+v", first)
	}
	if _, err := uc.SaveEntry(context.Background(), dto.EntryInput{Scale: "day", Title: "gym", Date: day(2), New: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := next(t, stream)
	if len(second.Value) != 1 || second.Value[0].Title != "gym" {
		t.Fatalf("second emission = %+v", second)
	}
	cancel()
	for range stream {
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("watch leaked %d subscriptions", hub.Subscribers())
	}
}

func TestWatchBadScaleFailsOnce(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	stream := uc.WatchTasks(context.Background(), "fortnight", 1)
	res := next(t, stream)
	if !errors.Is(res.Err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v", res.Err)
	}
	if _, ok := <-stream; ok {
		t.Fatalf("stream must close after the error")
	}
}

func TestPurgeAndStats(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	ctx := context.Background()
	for _, in := range []dto.EntryInput{
		{Scale: "day", Title: "old", Date: day(-3), New: true},
		{Scale: "day", Title: "soon", Date: day(2), New: true},
		{Scale: "year", Title: "old year", Date: day(-400), New: true},
		{Scale: "month", Title: "sooner", Date: day(1), New: true},
	} {
		if _, err := uc.SaveEntry(ctx, in); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	stats, err := uc.Stats(ctx, today)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Next == nil || stats.Next.Title != "sooner" {
		t.Fatalf("next = %+v", stats.Next)
	}
	if stats.Scales[0].Past != 1 || stats.Scales[0].Upcoming != 1 {
		t.Fatalf("day stats = %+v", stats.Scales[0])
	}

	purged, err := uc.PurgeBefore(ctx, today)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged.Removed["day"] != 1 || purged.Removed["year"] != 1 || purged.Removed["month"] != 0 {
		t.Fatalf("removed = %v", purged.Removed)
	}
}

func TestWeeks(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	ctx := context.Background()
	first, err := uc.SaveWeek(ctx, dto.WeekInput{Title: "Routine", Active: true})
	if err != nil {
		t.Fatalf("save week: %v", err)
	}
	second, err := uc.SaveWeek(ctx, dto.WeekInput{Title: "Holiday", Active: true})
	if err != nil {
		t.Fatalf("save week: %v", err)
	}
	weeks, _ := uc.ListWeeks(ctx)
	if len(weeks) != 2 || weeks[0].Active || !weeks[1].Active {
		t.Fatalf("only the last activated week may be active: %+v", weeks)
	}

	monday, err := uc.SaveWeekDay(ctx, dto.WeekDayInput{WeekID: second.ID, Title: "Monday"})
	if err != nil {
		t.Fatalf("save day: %v", err)
	}
	if _, err := uc.SaveWeekDayTask(ctx, dto.WeekDayTaskInput{DayID: monday.ID, Title: "swim", Start: day(0), End: day(-1)}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("backwards task err = %v", err)
	}
	if _, err := uc.SaveWeekDayTask(ctx, dto.WeekDayTaskInput{DayID: monday.ID, Title: "swim", Start: day(0), End: day(0)}); err != nil {
		t.Fatalf("save task: %v", err)
	}
	active, err := uc.ActiveWeek(ctx)
	if err != nil || !active.Found || active.Week.ID != second.ID || len(active.Days) != 1 {
		t.Fatalf("active = %+v, err = %v", active, err)
	}

	if err := uc.DeleteWeek(ctx, second.ID); err != nil {
		t.Fatalf("delete week: %v", err)
	}
	tasks, _ := uc.ListWeekDayTasks(ctx, monday.ID)
	if len(tasks) != 0 {
		t.Fatalf("week day tasks must cascade: %+v", tasks)
	}
	if _, err := uc.ListWeekDays(ctx, first.ID); err != nil {
		t.Fatalf("list days: %v", err)
	}
}

func next[T any](t *testing.T, ch <-chan live.Result[T]) live.Result[T] {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("stream closed")
		}
		return v
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for emission")
	}
	return live.Result[T]{}
}
