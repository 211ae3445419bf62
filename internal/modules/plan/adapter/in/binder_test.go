package in

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"planote/internal/modules/plan/dto"
	"planote/internal/platform/live"
)

type fakeUsecase struct {
	mu        sync.Mutex
	entries   map[string]chan live.Result[[]dto.EntryOutput]
	entryCtxs []context.Context
	taskCtxs  map[int64][]context.Context
	silent    map[int64]bool
	saveErr   error
	block     chan struct{}
}

func newFakeUsecase() *fakeUsecase {
	f := &fakeUsecase{
		entries:  map[string]chan live.Result[[]dto.EntryOutput]{},
		taskCtxs: map[int64][]context.Context{},
		silent:   map[int64]bool{},
	}
	for _, s := range scales {
		f.entries[s] = make(chan live.Result[[]dto.EntryOutput], 4)
	}
	return f
}

func (f *fakeUsecase) Today() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local) }

func (f *fakeUsecase) WatchEntriesFrom(ctx context.Context, scale string, _ time.Time) <-chan live.Result[[]dto.EntryOutput] {
	f.mu.Lock()
	f.entryCtxs = append(f.entryCtxs, ctx)
	f.mu.Unlock()
	return f.entries[scale]
}

func (f *fakeUsecase) WatchTasks(ctx context.Context, scale string, owner int64) <-chan live.Result[[]dto.TaskOutput] {
	f.mu.Lock()
	f.taskCtxs[owner] = append(f.taskCtxs[owner], ctx)
	silent := f.silent[owner]
	f.mu.Unlock()
	ch := make(chan live.Result[[]dto.TaskOutput], 1)
	if !silent {
		ch <- live.Result[[]dto.TaskOutput]{Value: []dto.TaskOutput{{OwnerID: owner, Scale: scale, Title: scale}}}
	}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func (f *fakeUsecase) opened(owner int64) []context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]context.Context(nil), f.taskCtxs[owner]...)
}

func (f *fakeUsecase) write() error {
	if f.block != nil {
		<-f.block
	}
	return f.saveErr
}

func (f *fakeUsecase) SaveEntry(context.Context, dto.EntryInput) (dto.EntryOutput, error) {
	return dto.EntryOutput{}, f.write()
}

func (f *fakeUsecase) DeleteEntry(context.Context, dto.EntryInput) error { return f.write() }

func (f *fakeUsecase) SaveTask(context.Context, dto.SaveTaskInput) (dto.SaveTaskOutput, error) {
	return dto.SaveTaskOutput{}, f.write()
}

func (f *fakeUsecase) DeleteTask(context.Context, dto.SaveTaskInput) error { return f.write() }

func (f *fakeUsecase) GetEntry(_ context.Context, scale string, id int64) (dto.EntryOutput, error) {
	return dto.EntryOutput{ID: id, Scale: scale}, nil
}

func (f *fakeUsecase) ListEntries(context.Context, dto.ListEntriesInput) ([]dto.EntryOutput, error) {
	return nil, nil
}

func (f *fakeUsecase) ListTasks(context.Context, string, int64) ([]dto.TaskOutput, error) {
	return nil, nil
}

func (f *fakeUsecase) PurgeBefore(context.Context, time.Time) (dto.PurgeOutput, error) {
	return dto.PurgeOutput{}, nil
}

func (f *fakeUsecase) Stats(context.Context, time.Time) (dto.StatsOutput, error) {
	return dto.StatsOutput{}, nil
}

func waitFor(t *testing.T, b *DataBinder, what string, ok func(dto.Snapshot) bool) dto.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s := b.Snapshot(); ok(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; snapshot %+v", what, b.Snapshot())
	return dto.Snapshot{}
}

func waitDone(t *testing.T, ctxs []context.Context) {
	t.Helper()
	for _, ctx := range ctxs {
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("subscription was not cancelled")
		}
	}
}

func entries(ids ...int64) live.Result[[]dto.EntryOutput] {
	out := make([]dto.EntryOutput, 0, len(ids))
	for _, id := range ids {
		out = append(out, dto.EntryOutput{ID: id})
	}
	return live.Result[[]dto.EntryOutput]{Value: out}
}

func TestEntriesArriveCombined(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	b := NewDataBinder(f, nil)
	defer b.Close()
	b.Start(context.Background())

	if !b.Snapshot().Loading {
		t.Fatalf("binder must start loading")
	}
	f.entries["day"] <- entries(1, 2)
	f.entries["month"] <- entries(3)
	time.Sleep(30 * time.Millisecond)
	if !b.Snapshot().Loading {
		t.Fatalf("snapshot published before all three lists arrived")
	}
	f.entries["year"] <- entries()
	waitFor(t, b, "combined lists", func(s dto.Snapshot) bool {
		return !s.Loading && len(s.Days) == 2 && len(s.Months) == 1 && s.Years != nil
	})

	f.entries["day"] <- live.Result[[]dto.EntryOutput]{Err: errors.New("database is locked")}
	s := waitFor(t, b, "load error", func(s dto.Snapshot) bool { return s.Err != "" })
	if s.Err != "DB: Day loading error: database is locked" {
		t.Fatalf("err = %q", s.Err)
	}
	if len(s.Days) != 2 {
		t.Fatalf("a failed reload must keep the last list, got %+v", s.Days)
	}
}

func TestRapidOwnerSwitchShowsOnlyLatest(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	f.silent[1] = true
	b := NewDataBinder(f, nil)
	defer b.Close()
	b.Start(context.Background())

	b.SelectOwner(1)
	b.SelectOwner(2)
	s := waitFor(t, b, "owner 2 tasks", func(s dto.Snapshot) bool {
		return s.SelectedOwner == 2 && len(s.DayTasks) == 1 && len(s.MonthTasks) == 1 && len(s.YearTasks) == 1
	})
	for _, task := range append(append(s.DayTasks, s.MonthTasks...), s.YearTasks...) {
		if task.OwnerID != 2 {
			t.Fatalf("stale task in snapshot: %+v", task)
		}
	}
	waitDone(t, f.opened(1))
}

func TestStaleOwnerEmissionIsDiscarded(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	f.silent[2] = true
	b := NewDataBinder(f, nil)
	defer b.Close()
	b.Start(context.Background())

	b.SelectOwner(1)
	waitFor(t, b, "owner 1 tasks", func(s dto.Snapshot) bool { return len(s.DayTasks) == 1 })
	b.SelectOwner(2)
	waitFor(t, b, "owner 2 selected", func(s dto.Snapshot) bool { return s.SelectedOwner == 2 })
	waitDone(t, f.opened(1))
	time.Sleep(30 * time.Millisecond)
	if s := b.Snapshot(); s.DayTasks != nil || s.MonthTasks != nil || s.YearTasks != nil {
		t.Fatalf("tasks of the previous owner leaked: %+v", s)
	}
}

func TestSelectOwnerIgnoresRepeats(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	b := NewDataBinder(f, nil)
	defer b.Close()
	b.Start(context.Background())

	b.SelectOwner(5)
	waitFor(t, b, "owner 5 tasks", func(s dto.Snapshot) bool { return len(s.YearTasks) == 1 })
	b.SelectOwner(5)
	time.Sleep(30 * time.Millisecond)
	if n := len(f.opened(5)); n != 3 {
		t.Fatalf("repeated selection re-subscribed: %d opens", n)
	}
}

func TestWriteFailureBecomesSnapshotError(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	f.saveErr = errors.New("disk full")
	b := NewDataBinder(f, nil)
	defer b.Close()
	b.Start(context.Background())

	b.SaveEntry(dto.EntryInput{Scale: "day", New: true})
	s := waitFor(t, b, "write error", func(s dto.Snapshot) bool { return s.Err != "" })
	if s.Err != "DB: Day adding error: disk full" {
		t.Fatalf("err = %q", s.Err)
	}
	b.ClearError()
	waitFor(t, b, "cleared error", func(s dto.Snapshot) bool { return s.Err == "" })

	b.DeleteTask(dto.EntryInput{Scale: "month"}, dto.TaskInput{ID: 1})
	s = waitFor(t, b, "task error", func(s dto.Snapshot) bool { return s.Err != "" })
	if s.Err != "DB: Month deleting task error: disk full" {
		t.Fatalf("err = %q", s.Err)
	}
}

func TestWaitCoversInFlightWrites(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	f.block = make(chan struct{})
	b := NewDataBinder(f, nil)
	defer b.Close()

	b.SaveTask(dto.EntryInput{Scale: "year", New: true}, dto.TaskInput{New: true})
	done := make(chan struct{})
	go func() {
		b.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("Wait returned while a write was blocked")
	case <-time.After(30 * time.Millisecond):
	}
	close(f.block)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Wait did not return after the write finished")
	}
}

func TestCloseCancelsEverySubscription(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	b := NewDataBinder(f, nil)
	b.Start(context.Background())
	b.SelectOwner(3)
	waitFor(t, b, "owner 3 tasks", func(s dto.Snapshot) bool { return len(s.DayTasks) == 1 })

	b.Close()
	f.mu.Lock()
	ctxs := append([]context.Context(nil), f.entryCtxs...)
	f.mu.Unlock()
	waitDone(t, ctxs)
	waitDone(t, f.opened(3))
	b.Close()
}

func TestUpdatesNeverBlockTheBinder(t *testing.T) {
	t.Parallel()
	f := newFakeUsecase()
	b := NewDataBinder(f, nil)
	defer b.Close()
	b.Start(context.Background())

	for i := 0; i < 40; i++ {
		b.ClearError()
	}
	f.entries["day"] <- entries(1)
	f.entries["month"] <- entries()
	f.entries["year"] <- entries()
	waitFor(t, b, "entries", func(s dto.Snapshot) bool { return !s.Loading })
	select {
	case s := <-b.Updates():
		if s.Loading {
			t.Fatalf("Updates held a stale snapshot")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no update delivered")
	}
}
