package in

import (
	"context"
	"time"

	"planote/internal/modules/plan/dto"
	"planote/internal/platform/live"
)

type Usecase interface {
	SaveEntry(ctx context.Context, input dto.EntryInput) (dto.EntryOutput, error)
	DeleteEntry(ctx context.Context, input dto.EntryInput) error
	SaveTask(ctx context.Context, input dto.SaveTaskInput) (dto.SaveTaskOutput, error)
	DeleteTask(ctx context.Context, input dto.SaveTaskInput) error
	GetEntry(ctx context.Context, scale string, id int64) (dto.EntryOutput, error)
	ListEntries(ctx context.Context, input dto.ListEntriesInput) ([]dto.EntryOutput, error)
	ListTasks(ctx context.Context, scale string, ownerID int64) ([]dto.TaskOutput, error)
	WatchEntriesFrom(ctx context.Context, scale string, cutoff time.Time) <-chan live.Result[[]dto.EntryOutput]
	WatchTasks(ctx context.Context, scale string, ownerID int64) <-chan live.Result[[]dto.TaskOutput]
	PurgeBefore(ctx context.Context, cutoff time.Time) (dto.PurgeOutput, error)
	Stats(ctx context.Context, cutoff time.Time) (dto.StatsOutput, error)
	Today() time.Time
}

type WeekUsecase interface {
	SaveWeek(ctx context.Context, input dto.WeekInput) (dto.WeekOutput, error)
	DeleteWeek(ctx context.Context, id int64) error
	ListWeeks(ctx context.Context) ([]dto.WeekOutput, error)
	ActiveWeek(ctx context.Context) (dto.ActiveWeekOutput, error)
	SaveWeekDay(ctx context.Context, input dto.WeekDayInput) (dto.WeekDayOutput, error)
	ListWeekDays(ctx context.Context, weekID int64) ([]dto.WeekDayOutput, error)
	SaveWeekDayTask(ctx context.Context, input dto.WeekDayTaskInput) (dto.WeekDayTaskOutput, error)
	ListWeekDayTasks(ctx context.Context, dayID int64) ([]dto.WeekDayTaskOutput, error)
}
