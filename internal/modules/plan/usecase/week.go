package usecase

import (
	"context"

	"planote/internal/modules/plan/domain"
	"planote/internal/modules/plan/dto"
)

func (i *Interactor) SaveWeek(ctx context.Context, input dto.WeekInput) (dto.WeekOutput, error) {
	week, err := i.weeks.SaveWeek(ctx, domain.Week{ID: input.ID, Title: input.Title, Active: input.Active})
	if err != nil {
		return dto.WeekOutput{}, err
	}
	return toWeekOutput(week), nil
}

func (i *Interactor) DeleteWeek(ctx context.Context, id int64) error {
	return i.weeks.DeleteWeek(ctx, id)
}

func (i *Interactor) ListWeeks(ctx context.Context) ([]dto.WeekOutput, error) {
	weeks, err := i.weeks.Weeks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WeekOutput, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, toWeekOutput(w))
	}
	return out, nil
}

func (i *Interactor) ActiveWeek(ctx context.Context) (dto.ActiveWeekOutput, error) {
	week, ok, err := i.weeks.Active(ctx)
	if err != nil || !ok {
		return dto.ActiveWeekOutput{}, err
	}
	days, err := i.ListWeekDays(ctx, week.ID)
	if err != nil {
		return dto.ActiveWeekOutput{}, err
	}
	return dto.ActiveWeekOutput{Week: toWeekOutput(week), Days: days, Found: true}, nil
}

func (i *Interactor) SaveWeekDay(ctx context.Context, input dto.WeekDayInput) (dto.WeekDayOutput, error) {
	day, err := i.weeks.SaveDay(ctx, domain.WeekDay{ID: input.ID, WeekID: input.WeekID, Title: input.Title, Description: input.Description})
	if err != nil {
		return dto.WeekDayOutput{}, err
	}
	return toWeekDayOutput(day), nil
}

func (i *Interactor) ListWeekDays(ctx context.Context, weekID int64) ([]dto.WeekDayOutput, error) {
	days, err := i.weeks.Days(ctx, weekID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WeekDayOutput, 0, len(days))
	for _, d := range days {
		out = append(out, toWeekDayOutput(d))
	}
	return out, nil
}

func (i *Interactor) SaveWeekDayTask(ctx context.Context, input dto.WeekDayTaskInput) (dto.WeekDayTaskOutput, error) {
	task, err := i.weeks.SaveTask(ctx, domain.WeekDayTask{
		ID:          input.ID,
		DayID:       input.DayID,
		Title:       input.Title,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Done:        input.Done,
	})
	if err != nil {
		return dto.WeekDayTaskOutput{}, err
	}
	return toWeekDayTaskOutput(task), nil
}

func (i *Interactor) ListWeekDayTasks(ctx context.Context, dayID int64) ([]dto.WeekDayTaskOutput, error) {
	tasks, err := i.weeks.Tasks(ctx, dayID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WeekDayTaskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toWeekDayTaskOutput(t))
	}
	return out, nil
}

func toWeekOutput(w domain.Week) dto.WeekOutput {
	return dto.WeekOutput{ID: w.ID, Title: w.Title, Active: w.Active}
}

func toWeekDayOutput(d domain.WeekDay) dto.WeekDayOutput {
	return dto.WeekDayOutput{ID: d.ID, WeekID: d.WeekID, Title: d.Title, Description: d.Description}
}

func toWeekDayTaskOutput(t domain.WeekDayTask) dto.WeekDayTaskOutput {
	return dto.WeekDayTaskOutput{
		ID:          t.ID,
		DayID:       t.DayID,
		Title:       t.Title,
		Description: t.Description,
		Start:       t.Start,
		End:         t.End,
		Done:        t.Done,
	}
}
