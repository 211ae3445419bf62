package out

import (
	"context"
	"time"

	"planote/internal/modules/plan/domain"
)

type EntryStore interface {
	InsertEntry(ctx context.Context, entry domain.Entry) (int64, error)
	UpdateEntry(ctx context.Context, entry domain.Entry) error
	DeleteEntry(ctx context.Context, scale domain.Scale, id int64) error
	EntryByID(ctx context.Context, scale domain.Scale, id int64) (domain.Entry, error)
	EntriesFrom(ctx context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error)
	EntriesBefore(ctx context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error)
	DeleteEntriesBefore(ctx context.Context, scale domain.Scale, cutoff time.Time) (int64, error)
}

type TaskStore interface {
	InsertTask(ctx context.Context, task domain.Task) (int64, error)
	UpdateTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, scale domain.Scale, id int64) error
	TasksFor(ctx context.Context, scale domain.Scale, ownerID int64) ([]domain.Task, error)
	CountTasks(ctx context.Context, scale domain.Scale) (total int, done int, err error)
}

type WeekStore interface {
	InsertWeek(ctx context.Context, week domain.Week) (int64, error)
	UpdateWeek(ctx context.Context, week domain.Week) error
	DeleteWeek(ctx context.Context, id int64) error
	Weeks(ctx context.Context) ([]domain.Week, error)
	DeactivateWeeks(ctx context.Context, keep int64) error
	InsertWeekDay(ctx context.Context, day domain.WeekDay) (int64, error)
	UpdateWeekDay(ctx context.Context, day domain.WeekDay) error
	WeekDays(ctx context.Context, weekID int64) ([]domain.WeekDay, error)
	InsertWeekDayTask(ctx context.Context, task domain.WeekDayTask) (int64, error)
	UpdateWeekDayTask(ctx context.Context, task domain.WeekDayTask) error
	WeekDayTasks(ctx context.Context, dayID int64) ([]domain.WeekDayTask, error)
}

// Notifier announces that the named tables changed.
type Notifier interface {
	Publish(topics ...string)
}
