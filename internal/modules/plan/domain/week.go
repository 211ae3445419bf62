package domain

import (
	"fmt"
	"time"
)

const (
	WeekTable        = "plan_week"
	WeekDayTable     = "plan_week_day"
	WeekDayTaskTable = "plan_week_day_task"
)

type Week struct {
	ID     int64
	Title  string
	Active bool
}

type WeekDay struct {
	ID          int64
	WeekID      int64
	Title       string
	Description string
}

type WeekDayTask struct {
	ID          int64
	DayID       int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Done        bool
}

func (t WeekDayTask) Validate() error {
	if t.End.Before(t.Start) {
		return fmt.Errorf("task ends %s before it starts %s", FormatDate(t.End), FormatDate(t.Start))
	}
	return nil
}
