package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"planote/internal/modules/plan/domain"
)

type call struct {
	op    string
	scale domain.Scale
	id    int64
	owner int64
}

type fakeStore struct {
	calls  []call
	nextID int64
	fail   error
}

func (f *fakeStore) record(c call) error {
	f.calls = append(f.calls, c)
	return f.fail
}

func (f *fakeStore) InsertEntry(_ context.Context, e domain.Entry) (int64, error) {
	f.nextID++
	return f.nextID, f.record(call{op: "insert-entry", scale: e.Scale, id: f.nextID})
}

func (f *fakeStore) UpdateEntry(_ context.Context, e domain.Entry) error {
	return f.record(call{op: "update-entry", scale: e.Scale, id: e.ID})
}

func (f *fakeStore) DeleteEntry(_ context.Context, scale domain.Scale, id int64) error {
	return f.record(call{op: "delete-entry", scale: scale, id: id})
}

func (f *fakeStore) EntryByID(_ context.Context, scale domain.Scale, id int64) (domain.Entry, error) {
	return domain.Entry{ID: id, Scale: scale}, nil
}

func (f *fakeStore) EntriesFrom(_ context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error) {
	switch scale {
	case domain.ScaleDay:
		return []domain.Entry{{ID: 1, Scale: scale, Title: "dentist", Date: cutoff.AddDate(0, 0, 3)}}, nil
	case domain.ScaleMonth:
		return []domain.Entry{{ID: 2, Scale: scale, Title: "move", Date: cutoff.AddDate(0, 0, 1)}, {ID: 3, Scale: scale, Date: cutoff.AddDate(0, 2, 0)}}, nil
	default:
		return []domain.Entry{}, nil
	}
}

func (f *fakeStore) EntriesBefore(_ context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error) {
	if scale == domain.ScaleYear {
		return []domain.Entry{{ID: 9, Scale: scale, Date: cutoff.AddDate(-1, 0, 0)}}, nil
	}
	return []domain.Entry{}, nil
}

func (f *fakeStore) DeleteEntriesBefore(_ context.Context, scale domain.Scale, _ time.Time) (int64, error) {
	return 2, f.record(call{op: "purge", scale: scale})
}

func (f *fakeStore) InsertTask(_ context.Context, t domain.Task) (int64, error) {
	f.nextID++
	return f.nextID, f.record(call{op: "insert-task", scale: t.Scale, id: f.nextID, owner: t.OwnerID})
}

func (f *fakeStore) UpdateTask(_ context.Context, t domain.Task) error {
	return f.record(call{op: "update-task", scale: t.Scale, id: t.ID, owner: t.OwnerID})
}

func (f *fakeStore) DeleteTask(_ context.Context, scale domain.Scale, id int64) error {
	return f.record(call{op: "delete-task", scale: scale, id: id})
}

func (f *fakeStore) TasksFor(context.Context, domain.Scale, int64) ([]domain.Task, error) {
	return []domain.Task{}, nil
}

func (f *fakeStore) CountTasks(_ context.Context, scale domain.Scale) (int, int, error) {
	if scale == domain.ScaleDay {
		return 4, 1, nil
	}
	return 0, 0, nil
}

func (f *fakeStore) ops() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.op)
	}
	return out
}

type recordingNotifier struct{ topics [][]string }

func (r *recordingNotifier) Publish(topics ...string) { r.topics = append(r.topics, topics) }

type countingTx struct{ calls int }

func (c *countingTx) Within(ctx context.Context, fn func(context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func newService(store *fakeStore) (*PlanService, *recordingNotifier, *countingTx) {
	n := &recordingNotifier{}
	txm := &countingTx{}
	return NewPlanService(store, store, txm, n, nil), n, txm
}

func equalOps(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSaveNewBlankEntryInsertsOnly(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc, notify, _ := newService(store)
	saved, action, err := svc.SaveEntry(context.Background(), domain.Entry{Scale: domain.ScaleDay, New: true, Title: " "})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if action != domain.ActionInsert || !equalOps(store.ops(), "insert-entry") {
		t.Fatalf("action=%v ops=%v, want a single insert", action, store.ops())
	}
	if saved.New || saved.ID != 1 {
		t.Fatalf("saved entry = %+v", saved)
	}
	if len(notify.topics) != 1 || notify.topics[0][0] != "plan_calendar_day" {
		t.Fatalf("published %v", notify.topics)
	}
}

func TestSaveStoredBlankEntryDeletes(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc, _, _ := newService(store)
	if _, action, err := svc.SaveEntry(context.Background(), domain.Entry{ID: 7, Scale: domain.ScaleMonth}); err != nil || action != domain.ActionDelete {
		t.Fatalf("action=%v err=%v", action, err)
	}
	if !equalOps(store.ops(), "delete-entry") || store.calls[0].id != 7 {
		t.Fatalf("calls = %+v", store.calls)
	}
}

func TestSaveEntryPropagatesStoreError(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk full")
	store := &fakeStore{fail: boom}
	svc, notify, _ := newService(store)
	if _, _, err := svc.SaveEntry(context.Background(), domain.Entry{ID: 2, Scale: domain.ScaleYear, Title: "x"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(notify.topics) != 0 {
		t.Fatalf("failed write must not publish")
	}
}

func TestSaveTaskWithNewOwner(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc, _, txm := newService(store)
	owner, task, err := svc.SaveTask(context.Background(),
		domain.Entry{Scale: domain.ScaleDay, New: true, Title: "Trip"},
		domain.Task{New: true, Title: "pack"},
	)
	if err != nil {
		t.Fatalf("save task: %v", err)
	}
	if !equalOps(store.ops(), "insert-entry", "insert-task") {
		t.Fatalf("ops = %v", store.ops())
	}
	if store.calls[1].owner != owner.ID || task.OwnerID != owner.ID || owner.New || task.New {
		t.Fatalf("owner id not propagated: owner=%+v task=%+v", owner, task)
	}
	if task.Scale != domain.ScaleDay {
		t.Fatalf("task scale = %q", task.Scale)
	}
	if txm.calls != 1 {
		t.Fatalf("owner and task must share one transaction, got %d", txm.calls)
	}
}

func TestSaveTaskWithStoredOwnerUpdatesBoth(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc, _, _ := newService(store)
	_, _, err := svc.SaveTask(context.Background(),
		domain.Entry{ID: 3, Scale: domain.ScaleYear, Title: ""},
		domain.Task{ID: 5, Title: ""},
	)
	if err != nil {
		t.Fatalf("save task: %v", err)
	}
	if !equalOps(store.ops(), "update-entry", "update-task") || store.calls[1].owner != 3 {
		t.Fatalf("calls = %+v", store.calls)
	}
}

func TestDeletesOfUnsavedValuesAreNoops(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc, notify, _ := newService(store)
	ctx := context.Background()
	if ran, err := svc.DeleteEntry(ctx, domain.Entry{New: true, Scale: domain.ScaleDay}); ran || err != nil {
		t.Fatalf("delete new entry ran=%v err=%v", ran, err)
	}
	if ran, _ := svc.DeleteTask(ctx, domain.Entry{New: true, Scale: domain.ScaleDay}, domain.Task{ID: 1}); ran {
		t.Fatalf("task of new owner must not be deleted")
	}
	if ran, _ := svc.DeleteTask(ctx, domain.Entry{ID: 1, Scale: domain.ScaleDay}, domain.Task{New: true}); ran {
		t.Fatalf("new task must not be deleted")
	}
	if len(store.calls) != 0 || len(notify.topics) != 0 {
		t.Fatalf("no-op deletes touched the store: %v", store.ops())
	}
	if ran, err := svc.DeleteTask(ctx, domain.Entry{ID: 1, Scale: domain.ScaleDay}, domain.Task{ID: 4}); !ran || err != nil {
		t.Fatalf("delete stored task ran=%v err=%v", ran, err)
	}
}

func TestPurgeBeforeRunsInOneTransaction(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc, notify, txm := newService(store)
	removed, err := svc.PurgeBefore(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if txm.calls != 1 || len(removed) != 3 || removed[domain.ScaleMonth] != 2 {
		t.Fatalf("tx=%d removed=%v", txm.calls, removed)
	}
	if len(notify.topics) != 1 || len(notify.topics[0]) != 6 {
		t.Fatalf("published %v", notify.topics)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(&fakeStore{})
	cutoff := time.Date(2026, 4, 10, 0, 0, 0, 0, time.Local)
	stats, err := svc.Stats(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats.Scales) != 3 || stats.Scales[1].Upcoming != 2 || stats.Scales[2].Past != 1 {
		t.Fatalf("scales = %+v", stats.Scales)
	}
	if stats.Next == nil || stats.Next.ID != 2 {
		t.Fatalf("next = %+v, want the month entry due tomorrow", stats.Next)
	}
	if total, done := stats.TotalTasks(); total != 4 || done != 1 {
		t.Fatalf("tasks total=%d done=%d", total, done)
	}
}
