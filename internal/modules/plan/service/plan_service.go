package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"planote/internal/modules/plan/domain"
	planout "planote/internal/modules/plan/port/out"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/tx"
)

type PlanService struct {
	entries planout.EntryStore
	tasks   planout.TaskStore
	tx      tx.Manager
	notify  planout.Notifier
	log     hclog.Logger
}

func NewPlanService(entries planout.EntryStore, tasks planout.TaskStore, txm tx.Manager, notify planout.Notifier, log hclog.Logger) *PlanService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &PlanService{entries: entries, tasks: tasks, tx: txm, notify: notify, log: log.Named("plan")}
}

// SaveEntry persists entry according to domain.EntryAction and returns the
// stored value together with the action taken.
func (s *PlanService) SaveEntry(ctx context.Context, entry domain.Entry) (domain.Entry, domain.Action, error) {
	if !entry.Scale.Valid() {
		return domain.Entry{}, domain.ActionNone, fmt.Errorf("%w: scale %q", apperrors.ErrInvalidInput, entry.Scale)
	}
	action := domain.EntryAction(entry)
	var err error
	switch action {
	case domain.ActionInsert:
		entry.ID, err = s.entries.InsertEntry(ctx, entry)
		entry.New = false
	case domain.ActionDelete:
		err = s.entries.DeleteEntry(ctx, entry.Scale, entry.ID)
	case domain.ActionUpdate:
		err = s.entries.UpdateEntry(ctx, entry)
	}
	if err != nil {
		return domain.Entry{}, action, err
	}
	s.log.Debug("entry saved", "scale", entry.Scale, "id", entry.ID, "action", action)
	s.publish(entry.Scale.EntryTable(), entry.Scale.TaskTable())
	return entry, action, nil
}

// SaveTask upserts owner and then task in one transaction. A freshly inserted
// owner's id is carried into the task.
func (s *PlanService) SaveTask(ctx context.Context, owner domain.Entry, task domain.Task) (domain.Entry, domain.Task, error) {
	if !owner.Scale.Valid() {
		return domain.Entry{}, domain.Task{}, fmt.Errorf("%w: scale %q", apperrors.ErrInvalidInput, owner.Scale)
	}
	task.Scale = owner.Scale
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if owner.New {
			id, err := s.entries.InsertEntry(ctx, owner)
			if err != nil {
				return err
			}
			owner.ID, owner.New = id, false
		} else if err := s.entries.UpdateEntry(ctx, owner); err != nil {
			return err
		}
		task.OwnerID = owner.ID
		if domain.TaskAction(task) == domain.ActionInsert {
			id, err := s.tasks.InsertTask(ctx, task)
			if err != nil {
				return err
			}
			task.ID, task.New = id, false
			return nil
		}
		return s.tasks.UpdateTask(ctx, task)
	})
	if err != nil {
		return domain.Entry{}, domain.Task{}, err
	}
	s.log.Debug("task saved", "scale", owner.Scale, "owner", owner.ID, "id", task.ID)
	s.publish(owner.Scale.EntryTable(), owner.Scale.TaskTable())
	return owner, task, nil
}

// DeleteEntry removes a stored entry and, by cascade, its tasks. Entries that
// were never stored are left alone; the boolean reports whether a delete ran.
func (s *PlanService) DeleteEntry(ctx context.Context, entry domain.Entry) (bool, error) {
	if entry.New {
		return false, nil
	}
	if err := s.entries.DeleteEntry(ctx, entry.Scale, entry.ID); err != nil {
		return false, err
	}
	s.publish(entry.Scale.EntryTable(), entry.Scale.TaskTable())
	return true, nil
}

// DeleteTask removes task only when both it and its owner are stored.
func (s *PlanService) DeleteTask(ctx context.Context, owner domain.Entry, task domain.Task) (bool, error) {
	if owner.New || task.New {
		return false, nil
	}
	if err := s.tasks.DeleteTask(ctx, owner.Scale, task.ID); err != nil {
		return false, err
	}
	s.publish(owner.Scale.TaskTable())
	return true, nil
}

func (s *PlanService) Entry(ctx context.Context, scale domain.Scale, id int64) (domain.Entry, error) {
	return s.entries.EntryByID(ctx, scale, id)
}

func (s *PlanService) EntriesFrom(ctx context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error) {
	return s.entries.EntriesFrom(ctx, scale, cutoff)
}

func (s *PlanService) EntriesBefore(ctx context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error) {
	return s.entries.EntriesBefore(ctx, scale, cutoff)
}

func (s *PlanService) TasksFor(ctx context.Context, scale domain.Scale, ownerID int64) ([]domain.Task, error) {
	return s.tasks.TasksFor(ctx, scale, ownerID)
}

// PurgeBefore drops every entry dated before cutoff on all scales.
func (s *PlanService) PurgeBefore(ctx context.Context, cutoff time.Time) (map[domain.Scale]int64, error) {
	removed := make(map[domain.Scale]int64, 3)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		for _, scale := range domain.Scales() {
			n, err := s.entries.DeleteEntriesBefore(ctx, scale, cutoff)
			if err != nil {
				return err
			}
			removed[scale] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, 6)
	for _, scale := range domain.Scales() {
		topics = append(topics, scale.EntryTable(), scale.TaskTable())
	}
	s.log.Info("purged entries", "before", domain.FormatDate(cutoff), "removed", removed)
	s.publish(topics...)
	return removed, nil
}

func (s *PlanService) Stats(ctx context.Context, cutoff time.Time) (domain.Stats, error) {
	stats := domain.Stats{Cutoff: cutoff}
	for _, scale := range domain.Scales() {
		upcoming, err := s.entries.EntriesFrom(ctx, scale, cutoff)
		if err != nil {
			return domain.Stats{}, err
		}
		past, err := s.entries.EntriesBefore(ctx, scale, cutoff)
		if err != nil {
			return domain.Stats{}, err
		}
		total, done, err := s.tasks.CountTasks(ctx, scale)
		if err != nil {
			return domain.Stats{}, err
		}
		stats.Scales = append(stats.Scales, domain.ScaleStats{
			Scale:     scale,
			Upcoming:  len(upcoming),
			Past:      len(past),
			Tasks:     total,
			TasksDone: done,
		})
		if len(upcoming) > 0 && (stats.Next == nil || upcoming[0].Date.Before(stats.Next.Date)) {
			next := upcoming[0]
			stats.Next = &next
		}
	}
	return stats, nil
}

func (s *PlanService) publish(topics ...string) {
	if s.notify != nil {
		s.notify.Publish(topics...)
	}
}
