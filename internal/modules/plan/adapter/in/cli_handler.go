package in

import (
	"context"
	"fmt"
	"time"

	"planote/internal/modules/plan/dto"
	planin "planote/internal/modules/plan/port/in"
	apperrors "planote/internal/platform/errors"
)

type CLIHandler struct {
	usecase planin.Usecase
	weeks   planin.WeekUsecase
}

func NewCLIHandler(usecase planin.Usecase, weeks planin.WeekUsecase) CLIHandler {
	return CLIHandler{usecase: usecase, weeks: weeks}
}

func (h CLIHandler) Today() time.Time { return h.usecase.Today() }

func (h CLIHandler) AddEntry(ctx context.Context, scale, title string, date time.Time) (dto.EntryOutput, error) {
	return h.usecase.SaveEntry(ctx, dto.EntryInput{Scale: scale, Title: title, Date: date, New: true})
}

func (h CLIHandler) RenameEntry(ctx context.Context, scale string, id int64, title string) (dto.EntryOutput, error) {
	entry, err := h.usecase.GetEntry(ctx, scale, id)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return h.usecase.SaveEntry(ctx, dto.EntryInput{ID: entry.ID, Scale: scale, Title: title, Date: entry.Date})
}

func (h CLIHandler) RemoveEntry(ctx context.Context, scale string, id int64) error {
	entry, err := h.usecase.GetEntry(ctx, scale, id)
	if err != nil {
		return err
	}
	return h.usecase.DeleteEntry(ctx, dto.EntryInput{ID: entry.ID, Scale: scale, Title: entry.Title, Date: entry.Date})
}

func (h CLIHandler) ListEntries(ctx context.Context, scale string, cutoff time.Time, before bool) ([]dto.EntryOutput, error) {
	return h.usecase.ListEntries(ctx, dto.ListEntriesInput{Scale: scale, Cutoff: cutoff, Before: before})
}

func (h CLIHandler) AddTask(ctx context.Context, scale string, ownerID int64, title, description string) (dto.TaskOutput, error) {
	owner, err := h.owner(ctx, scale, ownerID)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	out, err := h.usecase.SaveTask(ctx, dto.SaveTaskInput{
		Owner: owner,
		Task:  dto.TaskInput{Title: title, Description: description, New: true},
	})
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return out.Task, nil
}

func (h CLIHandler) ListTasks(ctx context.Context, scale string, ownerID int64) ([]dto.TaskOutput, error) {
	return h.usecase.ListTasks(ctx, scale, ownerID)
}

// SetTaskDone flips the done flag of one task of ownerID.
func (h CLIHandler) SetTaskDone(ctx context.Context, scale string, ownerID, taskID int64, done bool) (dto.TaskOutput, error) {
	owner, err := h.owner(ctx, scale, ownerID)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	task, err := h.task(ctx, scale, ownerID, taskID)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	out, err := h.usecase.SaveTask(ctx, dto.SaveTaskInput{
		Owner: owner,
		Task:  dto.TaskInput{ID: task.ID, Title: task.Title, Description: task.Description, Done: done},
	})
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return out.Task, nil
}

func (h CLIHandler) RemoveTask(ctx context.Context, scale string, ownerID, taskID int64) error {
	owner, err := h.owner(ctx, scale, ownerID)
	if err != nil {
		return err
	}
	if _, err := h.task(ctx, scale, ownerID, taskID); err != nil {
		return err
	}
	return h.usecase.DeleteTask(ctx, dto.SaveTaskInput{Owner: owner, Task: dto.TaskInput{ID: taskID}})
}

func (h CLIHandler) PurgeBefore(ctx context.Context, cutoff time.Time) (dto.PurgeOutput, error) {
	return h.usecase.PurgeBefore(ctx, cutoff)
}

func (h CLIHandler) Stats(ctx context.Context, cutoff time.Time) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, cutoff)
}

func (h CLIHandler) AddWeek(ctx context.Context, title string, active bool) (dto.WeekOutput, error) {
	return h.weeks.SaveWeek(ctx, dto.WeekInput{Title: title, Active: active})
}

func (h CLIHandler) ListWeeks(ctx context.Context) ([]dto.WeekOutput, error) {
	return h.weeks.ListWeeks(ctx)
}

func (h CLIHandler) ActiveWeek(ctx context.Context) (dto.ActiveWeekOutput, error) {
	return h.weeks.ActiveWeek(ctx)
}

func (h CLIHandler) RemoveWeek(ctx context.Context, id int64) error {
	return h.weeks.DeleteWeek(ctx, id)
}

func (h CLIHandler) AddWeekDay(ctx context.Context, weekID int64, title, description string) (dto.WeekDayOutput, error) {
	return h.weeks.SaveWeekDay(ctx, dto.WeekDayInput{WeekID: weekID, Title: title, Description: description})
}

func (h CLIHandler) ListWeekDays(ctx context.Context, weekID int64) ([]dto.WeekDayOutput, error) {
	return h.weeks.ListWeekDays(ctx, weekID)
}

func (h CLIHandler) AddWeekDayTask(ctx context.Context, dayID int64, title string, start, end time.Time) (dto.WeekDayTaskOutput, error) {
	return h.weeks.SaveWeekDayTask(ctx, dto.WeekDayTaskInput{DayID: dayID, Title: title, Start: start, End: end})
}

func (h CLIHandler) ListWeekDayTasks(ctx context.Context, dayID int64) ([]dto.WeekDayTaskOutput, error) {
	return h.weeks.ListWeekDayTasks(ctx, dayID)
}

func (h CLIHandler) owner(ctx context.Context, scale string, id int64) (dto.EntryInput, error) {
	entry, err := h.usecase.GetEntry(ctx, scale, id)
	if err != nil {
		return dto.EntryInput{}, err
	}
	return dto.EntryInput{ID: entry.ID, Scale: scale, Title: entry.Title, Date: entry.Date}, nil
}

func (h CLIHandler) task(ctx context.Context, scale string, ownerID, taskID int64) (dto.TaskOutput, error) {
	tasks, err := h.usecase.ListTasks(ctx, scale, ownerID)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return dto.TaskOutput{}, fmt.Errorf("%s task %d of %d: %w", scale, taskID, ownerID, apperrors.ErrNotFound)
}
