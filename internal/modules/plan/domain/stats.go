package domain

import "time"

type ScaleStats struct {
	Scale     Scale
	Upcoming  int
	Past      int
	Tasks     int
	TasksDone int
}

type Stats struct {
	Cutoff time.Time
	Scales []ScaleStats
	// Next is the earliest entry on or after Cutoff across all scales.
	Next *Entry
}

func (s Stats) TotalTasks() (total, done int) {
	for _, sc := range s.Scales {
		total += sc.Tasks
		done += sc.TasksDone
	}
	return total, done
}
