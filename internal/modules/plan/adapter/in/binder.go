package in

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"planote/internal/modules/plan/dto"
	planin "planote/internal/modules/plan/port/in"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/live"
)

var scales = [3]string{"day", "month", "year"}

// DataBinder keeps a dto.Snapshot in step with the database. Upcoming
// entries of every scale are watched from Start on; the tasks of the selected
// owner are watched with switch-latest semantics. Every change to the
// snapshot goes through one update goroutine, and writes are fire-and-forget
// with failures reported in Snapshot.Err.
type DataBinder struct {
	uc  planin.Usecase
	log hclog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	snap    atomic.Pointer[dto.Snapshot]
	updates chan func(dto.Snapshot) dto.Snapshot
	out     chan dto.Snapshot
	owners  chan int64

	ownerMu   sync.Mutex
	lastOwner int64
	hasOwner  bool

	startOnce sync.Once
	closeOnce sync.Once
	workers   sync.WaitGroup
	writes    sync.WaitGroup
}

type ownerTasks struct {
	owner int64
	tasks live.Triple[live.Result[[]dto.TaskOutput], live.Result[[]dto.TaskOutput], live.Result[[]dto.TaskOutput]]
}

func NewDataBinder(uc planin.Usecase, log hclog.Logger) *DataBinder {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &DataBinder{
		uc:      uc,
		log:     log.Named("binder"),
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan func(dto.Snapshot) dto.Snapshot, 16),
		out:     make(chan dto.Snapshot, 1),
		owners:  make(chan int64, 1),
	}
	b.snap.Store(&dto.Snapshot{Loading: true})
	b.workers.Add(1)
	go b.loop()
	return b
}

// Start opens the entry subscriptions and the owner pipeline. It returns at
// once; the binder stops when parent is done or Close is called.
func (b *DataBinder) Start(parent context.Context) {
	b.startOnce.Do(func() {
		stop := context.AfterFunc(parent, b.cancel)
		b.workers.Add(2)
		go func() {
			defer b.workers.Done()
			defer stop()
			b.watchEntries()
		}()
		go func() {
			defer b.workers.Done()
			b.watchOwnerTasks()
		}()
	})
}

// Snapshot returns the current state. The value must not be modified.
func (b *DataBinder) Snapshot() dto.Snapshot { return *b.snap.Load() }

// Updates delivers the latest snapshot after each change. A slow reader only
// ever sees the newest value.
func (b *DataBinder) Updates() <-chan dto.Snapshot { return b.out }

// SelectOwner switches the task subscriptions to ownerID. Repeating the
// current id is a no-op; an id <= 0 clears the selection.
func (b *DataBinder) SelectOwner(ownerID int64) {
	if ownerID < 0 {
		ownerID = 0
	}
	b.ownerMu.Lock()
	defer b.ownerMu.Unlock()
	if b.hasOwner && b.lastOwner == ownerID {
		return
	}
	b.lastOwner, b.hasOwner = ownerID, true
	for {
		select {
		case b.owners <- ownerID:
			return
		default:
			select {
			case <-b.owners:
			default:
			}
		}
	}
}

func (b *DataBinder) SaveEntry(entry dto.EntryInput) {
	b.dispatch(scaleLabel(entry.Scale)+" adding", func(ctx context.Context) error {
		_, err := b.uc.SaveEntry(ctx, entry)
		return err
	})
}

func (b *DataBinder) DeleteEntry(entry dto.EntryInput) {
	b.dispatch(scaleLabel(entry.Scale)+" deleting", func(ctx context.Context) error {
		return b.uc.DeleteEntry(ctx, entry)
	})
}

func (b *DataBinder) SaveTask(owner dto.EntryInput, task dto.TaskInput) {
	b.dispatch(scaleLabel(owner.Scale)+" adding task", func(ctx context.Context) error {
		_, err := b.uc.SaveTask(ctx, dto.SaveTaskInput{Owner: owner, Task: task})
		return err
	})
}

func (b *DataBinder) DeleteTask(owner dto.EntryInput, task dto.TaskInput) {
	b.dispatch(scaleLabel(owner.Scale)+" deleting task", func(ctx context.Context) error {
		return b.uc.DeleteTask(ctx, dto.SaveTaskInput{Owner: owner, Task: task})
	})
}

func (b *DataBinder) ClearError() {
	b.apply(func(s dto.Snapshot) dto.Snapshot {
		s.Err = ""
		return s
	})
}

// Wait blocks until every write dispatched so far has finished.
func (b *DataBinder) Wait() { b.writes.Wait() }

// Close lets in-flight writes finish, then cancels every subscription and
// stops the update goroutine.
func (b *DataBinder) Close() {
	b.closeOnce.Do(func() {
		b.writes.Wait()
		b.cancel()
		b.workers.Wait()
	})
}

func (b *DataBinder) loop() {
	defer b.workers.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case fn := <-b.updates:
			next := fn(*b.snap.Load())
			b.snap.Store(&next)
			select {
			case <-b.out:
			default:
			}
			b.out <- next
		}
	}
}

func (b *DataBinder) apply(fn func(dto.Snapshot) dto.Snapshot) {
	select {
	case b.updates <- fn:
	case <-b.ctx.Done():
	}
}

func (b *DataBinder) dispatch(op string, write func(context.Context) error) {
	b.writes.Add(1)
	go func() {
		defer b.writes.Done()
		if err := write(context.WithoutCancel(b.ctx)); err != nil {
			b.log.Error("write failed", "op", op, "error", err)
			msg := apperrors.Persistence(op, err)
			b.apply(func(s dto.Snapshot) dto.Snapshot {
				s.Err = msg
				return s
			})
		}
	}()
}

func (b *DataBinder) watchEntries() {
	cutoff := b.uc.Today()
	combined := live.Combine3(b.ctx,
		b.uc.WatchEntriesFrom(b.ctx, scales[0], cutoff),
		b.uc.WatchEntriesFrom(b.ctx, scales[1], cutoff),
		b.uc.WatchEntriesFrom(b.ctx, scales[2], cutoff),
	)
	for t := range combined {
		b.apply(func(s dto.Snapshot) dto.Snapshot {
			s.Loading = false
			s.Days = keepOnError(s.Days, t.First, &s.Err, scales[0])
			s.Months = keepOnError(s.Months, t.Second, &s.Err, scales[1])
			s.Years = keepOnError(s.Years, t.Third, &s.Err, scales[2])
			return s
		})
	}
}

func (b *DataBinder) watchOwnerTasks() {
	keys := make(chan int64)
	tasks := live.SwitchLatest(b.ctx, keys, b.openOwner)

	// The selection is recorded before the key reaches SwitchLatest, so an
	// emission for an older owner that is already queued gets filtered out
	// by the owner check below.
	b.workers.Add(1)
	go func() {
		defer b.workers.Done()
		defer close(keys)
		for {
			select {
			case <-b.ctx.Done():
				return
			case id := <-b.owners:
				b.apply(func(s dto.Snapshot) dto.Snapshot {
					s.SelectedOwner = id
					s.DayTasks, s.MonthTasks, s.YearTasks = nil, nil, nil
					return s
				})
				select {
				case keys <- id:
				case <-b.ctx.Done():
					return
				}
			}
		}
	}()

	for v := range tasks {
		b.apply(func(s dto.Snapshot) dto.Snapshot {
			if s.SelectedOwner != v.owner {
				return s
			}
			s.DayTasks = keepOnError(s.DayTasks, v.tasks.First, &s.Err, scales[0]+" task")
			s.MonthTasks = keepOnError(s.MonthTasks, v.tasks.Second, &s.Err, scales[1]+" task")
			s.YearTasks = keepOnError(s.YearTasks, v.tasks.Third, &s.Err, scales[2]+" task")
			return s
		})
	}
}

func (b *DataBinder) openOwner(ctx context.Context, owner int64) <-chan ownerTasks {
	out := make(chan ownerTasks)
	if owner <= 0 {
		close(out)
		return out
	}
	combined := live.Combine3(ctx,
		b.uc.WatchTasks(ctx, scales[0], owner),
		b.uc.WatchTasks(ctx, scales[1], owner),
		b.uc.WatchTasks(ctx, scales[2], owner),
	)
	go func() {
		defer close(out)
		for t := range combined {
			select {
			case out <- ownerTasks{owner: owner, tasks: t}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func keepOnError[T any](prev []T, res live.Result[[]T], errMsg *string, what string) []T {
	if res.Err != nil {
		*errMsg = apperrors.Persistence(scaleLabel(what)+" loading", res.Err)
		return prev
	}
	return res.Value
}

func scaleLabel(scale string) string {
	scale = strings.TrimSpace(scale)
	if scale == "" {
		return "Entry"
	}
	return strings.ToUpper(scale[:1]) + scale[1:]
}
