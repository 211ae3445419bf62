package dto

// Snapshot is the whole state the planner page renders. Values are replaced
// wholesale, never mutated in place.
type Snapshot struct {
	Days   []EntryOutput
	Months []EntryOutput
	Years  []EntryOutput

	SelectedOwner int64
	DayTasks      []TaskOutput
	MonthTasks    []TaskOutput
	YearTasks     []TaskOutput

	Loading bool
	Err     string
}

// Entries returns the list for scale.
func (s Snapshot) Entries(scale string) []EntryOutput {
	switch scale {
	case "day":
		return s.Days
	case "month":
		return s.Months
	case "year":
		return s.Years
	default:
		return nil
	}
}

// Tasks returns the selected owner's tasks for scale.
func (s Snapshot) Tasks(scale string) []TaskOutput {
	switch scale {
	case "day":
		return s.DayTasks
	case "month":
		return s.MonthTasks
	case "year":
		return s.YearTasks
	default:
		return nil
	}
}
