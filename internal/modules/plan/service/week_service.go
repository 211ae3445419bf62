package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"planote/internal/modules/plan/domain"
	planout "planote/internal/modules/plan/port/out"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/tx"
)

type WeekService struct {
	store  planout.WeekStore
	tx     tx.Manager
	notify planout.Notifier
	log    hclog.Logger
}

func NewWeekService(store planout.WeekStore, txm tx.Manager, notify planout.Notifier, log hclog.Logger) *WeekService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &WeekService{store: store, tx: txm, notify: notify, log: log.Named("week")}
}

// SaveWeek inserts a week with no id and updates otherwise. At most one week
// is active at a time.
func (s *WeekService) SaveWeek(ctx context.Context, week domain.Week) (domain.Week, error) {
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if week.ID == 0 {
			id, err := s.store.InsertWeek(ctx, week)
			if err != nil {
				return err
			}
			week.ID = id
		} else if err := s.store.UpdateWeek(ctx, week); err != nil {
			return err
		}
		if week.Active {
			return s.store.DeactivateWeeks(ctx, week.ID)
		}
		return nil
	})
	if err != nil {
		return domain.Week{}, err
	}
	s.publish(domain.WeekTable)
	return week, nil
}

func (s *WeekService) DeleteWeek(ctx context.Context, id int64) error {
	if err := s.store.DeleteWeek(ctx, id); err != nil {
		return err
	}
	s.publish(domain.WeekTable, domain.WeekDayTable, domain.WeekDayTaskTable)
	return nil
}

func (s *WeekService) Weeks(ctx context.Context) ([]domain.Week, error) {
	return s.store.Weeks(ctx)
}

// Active returns the active week, if any.
func (s *WeekService) Active(ctx context.Context) (domain.Week, bool, error) {
	weeks, err := s.store.Weeks(ctx)
	if err != nil {
		return domain.Week{}, false, err
	}
	for _, w := range weeks {
		if w.Active {
			return w, true, nil
		}
	}
	return domain.Week{}, false, nil
}

func (s *WeekService) SaveDay(ctx context.Context, day domain.WeekDay) (domain.WeekDay, error) {
	if day.WeekID == 0 {
		return domain.WeekDay{}, fmt.Errorf("%w: week id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(day.Title) == "" {
		return domain.WeekDay{}, fmt.Errorf("%w: day title is required", apperrors.ErrInvalidInput)
	}
	var err error
	if day.ID == 0 {
		day.ID, err = s.store.InsertWeekDay(ctx, day)
	} else {
		err = s.store.UpdateWeekDay(ctx, day)
	}
	if err != nil {
		return domain.WeekDay{}, err
	}
	s.publish(domain.WeekDayTable)
	return day, nil
}

func (s *WeekService) Days(ctx context.Context, weekID int64) ([]domain.WeekDay, error) {
	return s.store.WeekDays(ctx, weekID)
}

func (s *WeekService) SaveTask(ctx context.Context, task domain.WeekDayTask) (domain.WeekDayTask, error) {
	if task.DayID == 0 {
		return domain.WeekDayTask{}, fmt.Errorf("%w: day id is required", apperrors.ErrInvalidInput)
	}
	if err := task.Validate(); err != nil {
		return domain.WeekDayTask{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	var err error
	if task.ID == 0 {
		task.ID, err = s.store.InsertWeekDayTask(ctx, task)
	} else {
		err = s.store.UpdateWeekDayTask(ctx, task)
	}
	if err != nil {
		return domain.WeekDayTask{}, err
	}
	s.log.Debug("week day task saved", "day", task.DayID, "id", task.ID)
	s.publish(domain.WeekDayTaskTable)
	return task, nil
}

func (s *WeekService) Tasks(ctx context.Context, dayID int64) ([]domain.WeekDayTask, error) {
	return s.store.WeekDayTasks(ctx, dayID)
}

func (s *WeekService) publish(topics ...string) {
	if s.notify != nil {
		s.notify.Publish(topics...)
	}
}
