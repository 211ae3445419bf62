package usecase

import (
	"context"
	"fmt"
	"time"

	"planote/internal/modules/plan/domain"
	"planote/internal/modules/plan/dto"
	planin "planote/internal/modules/plan/port/in"
	"planote/internal/modules/plan/service"
	"planote/internal/platform/clock"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/live"
)

type Interactor struct {
	svc   *service.PlanService
	weeks *service.WeekService
	hub   *live.Hub
	clock clock.Clock
}

var (
	_ planin.Usecase     = (*Interactor)(nil)
	_ planin.WeekUsecase = (*Interactor)(nil)
)

func NewInteractor(svc *service.PlanService, weeks *service.WeekService, hub *live.Hub, clk clock.Clock) *Interactor {
	if hub == nil {
		hub = live.NewHub()
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Interactor{svc: svc, weeks: weeks, hub: hub, clock: clk}
}

func (i *Interactor) Today() time.Time { return clock.Today(i.clock) }

func (i *Interactor) SaveEntry(ctx context.Context, input dto.EntryInput) (dto.EntryOutput, error) {
	entry, err := toEntry(input)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	saved, _, err := i.svc.SaveEntry(ctx, entry)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toEntryOutput(saved), nil
}

func (i *Interactor) DeleteEntry(ctx context.Context, input dto.EntryInput) error {
	entry, err := toEntry(input)
	if err != nil {
		return err
	}
	_, err = i.svc.DeleteEntry(ctx, entry)
	return err
}

func (i *Interactor) SaveTask(ctx context.Context, input dto.SaveTaskInput) (dto.SaveTaskOutput, error) {
	owner, err := toEntry(input.Owner)
	if err != nil {
		return dto.SaveTaskOutput{}, err
	}
	savedOwner, savedTask, err := i.svc.SaveTask(ctx, owner, toTask(input.Task, owner))
	if err != nil {
		return dto.SaveTaskOutput{}, err
	}
	return dto.SaveTaskOutput{Owner: toEntryOutput(savedOwner), Task: toTaskOutput(savedTask)}, nil
}

func (i *Interactor) DeleteTask(ctx context.Context, input dto.SaveTaskInput) error {
	owner, err := toEntry(input.Owner)
	if err != nil {
		return err
	}
	_, err = i.svc.DeleteTask(ctx, owner, toTask(input.Task, owner))
	return err
}

func (i *Interactor) GetEntry(ctx context.Context, rawScale string, id int64) (dto.EntryOutput, error) {
	scale, err := parseScale(rawScale)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	entry, err := i.svc.Entry(ctx, scale, id)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toEntryOutput(entry), nil
}

func (i *Interactor) ListEntries(ctx context.Context, input dto.ListEntriesInput) ([]dto.EntryOutput, error) {
	scale, err := parseScale(input.Scale)
	if err != nil {
		return nil, err
	}
	var entries []domain.Entry
	if input.Before {
		entries, err = i.svc.EntriesBefore(ctx, scale, input.Cutoff)
	} else {
		entries, err = i.svc.EntriesFrom(ctx, scale, input.Cutoff)
	}
	if err != nil {
		return nil, err
	}
	return toEntryOutputs(entries), nil
}

func (i *Interactor) ListTasks(ctx context.Context, rawScale string, ownerID int64) ([]dto.TaskOutput, error) {
	scale, err := parseScale(rawScale)
	if err != nil {
		return nil, err
	}
	tasks, err := i.svc.TasksFor(ctx, scale, ownerID)
	if err != nil {
		return nil, err
	}
	return toTaskOutputs(tasks), nil
}

// WatchEntriesFrom streams the entries on or after cutoff, reloading after
// every change to the scale's table.
func (i *Interactor) WatchEntriesFrom(ctx context.Context, rawScale string, cutoff time.Time) <-chan live.Result[[]dto.EntryOutput] {
	scale, err := parseScale(rawScale)
	if err != nil {
		return failed[[]dto.EntryOutput](err)
	}
	return live.Query(ctx, i.hub, []string{scale.EntryTable()}, func(ctx context.Context) ([]dto.EntryOutput, error) {
		entries, err := i.svc.EntriesFrom(ctx, scale, cutoff)
		if err != nil {
			return nil, err
		}
		return toEntryOutputs(entries), nil
	})
}

func (i *Interactor) WatchTasks(ctx context.Context, rawScale string, ownerID int64) <-chan live.Result[[]dto.TaskOutput] {
	scale, err := parseScale(rawScale)
	if err != nil {
		return failed[[]dto.TaskOutput](err)
	}
	return live.Query(ctx, i.hub, []string{scale.TaskTable()}, func(ctx context.Context) ([]dto.TaskOutput, error) {
		tasks, err := i.svc.TasksFor(ctx, scale, ownerID)
		if err != nil {
			return nil, err
		}
		return toTaskOutputs(tasks), nil
	})
}

func (i *Interactor) PurgeBefore(ctx context.Context, cutoff time.Time) (dto.PurgeOutput, error) {
	removed, err := i.svc.PurgeBefore(ctx, cutoff)
	if err != nil {
		return dto.PurgeOutput{}, err
	}
	out := dto.PurgeOutput{Removed: make(map[string]int64, len(removed))}
	for scale, n := range removed {
		out.Removed[string(scale)] = n
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context, cutoff time.Time) (dto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx, cutoff)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	out := dto.StatsOutput{Cutoff: stats.Cutoff}
	for _, sc := range stats.Scales {
		out.Scales = append(out.Scales, dto.ScaleStats{
			Scale:     string(sc.Scale),
			Upcoming:  sc.Upcoming,
			Past:      sc.Past,
			Tasks:     sc.Tasks,
			TasksDone: sc.TasksDone,
		})
	}
	out.TotalTasks, out.DoneTasks = stats.TotalTasks()
	if stats.Next != nil {
		next := toEntryOutput(*stats.Next)
		out.Next = &next
	}
	return out, nil
}

func failed[T any](err error) <-chan live.Result[T] {
	ch := make(chan live.Result[T], 1)
	ch <- live.Result[T]{Err: err}
	close(ch)
	return ch
}

func parseScale(raw string) (domain.Scale, error) {
	scale, err := domain.ParseScale(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return scale, nil
}

func toEntry(in dto.EntryInput) (domain.Entry, error) {
	scale, err := parseScale(in.Scale)
	if err != nil {
		return domain.Entry{}, err
	}
	return domain.Entry{ID: in.ID, Scale: scale, Title: in.Title, Date: clock.DateOf(in.Date), New: in.New}, nil
}

func toTask(in dto.TaskInput, owner domain.Entry) domain.Task {
	return domain.Task{
		ID:          in.ID,
		OwnerID:     owner.ID,
		Scale:       owner.Scale,
		Title:       in.Title,
		Description: in.Description,
		Done:        in.Done,
		New:         in.New,
	}
}

func toEntryOutput(e domain.Entry) dto.EntryOutput {
	return dto.EntryOutput{ID: e.ID, Scale: string(e.Scale), Title: e.Title, Date: e.Date}
}

func toEntryOutputs(entries []domain.Entry) []dto.EntryOutput {
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryOutput(e))
	}
	return out
}

func toTaskOutput(t domain.Task) dto.TaskOutput {
	return dto.TaskOutput{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Scale:       string(t.Scale),
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
	}
}

func toTaskOutputs(tasks []domain.Task) []dto.TaskOutput {
	out := make([]dto.TaskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskOutput(t))
	}
	return out
}
