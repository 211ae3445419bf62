package dto

import "time"

type EntryInput struct {
	ID    int64
	Scale string
	Title string
	Date  time.Time
	New   bool
}

type EntryOutput struct {
	ID    int64
	Scale string
	Title string
	Date  time.Time
}

type TaskInput struct {
	ID          int64
	Title       string
	Description string
	Done        bool
	New         bool
}

type TaskOutput struct {
	ID          int64
	OwnerID     int64
	Scale       string
	Title       string
	Description string
	Done        bool
}

type SaveTaskInput struct {
	Owner EntryInput
	Task  TaskInput
}

type SaveTaskOutput struct {
	Owner EntryOutput
	Task  TaskOutput
}

type ListEntriesInput struct {
	Scale  string
	Cutoff time.Time
	// Before selects entries strictly before Cutoff instead of from it.
	Before bool
}

type ScaleStats struct {
	Scale     string
	Upcoming  int
	Past      int
	Tasks     int
	TasksDone int
}

type StatsOutput struct {
	Cutoff     time.Time
	Scales     []ScaleStats
	TotalTasks int
	DoneTasks  int
	Next       *EntryOutput
}

type PurgeOutput struct {
	Removed map[string]int64
}

type WeekInput struct {
	ID     int64
	Title  string
	Active bool
}

type WeekOutput struct {
	ID     int64
	Title  string
	Active bool
}

type WeekDayInput struct {
	ID          int64
	WeekID      int64
	Title       string
	Description string
}

type WeekDayOutput struct {
	ID          int64
	WeekID      int64
	Title       string
	Description string
}

type WeekDayTaskInput struct {
	ID          int64
	DayID       int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Done        bool
}

type WeekDayTaskOutput struct {
	ID          int64
	DayID       int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Done        bool
}

type ActiveWeekOutput struct {
	Week  WeekOutput
	Days  []WeekDayOutput
	Found bool
}
