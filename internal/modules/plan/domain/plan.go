package domain

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Scale is the granularity of a calendar entry.
type Scale string

const (
	ScaleDay   Scale = "day"
	ScaleMonth Scale = "month"
	ScaleYear  Scale = "year"
)

func Scales() []Scale {
	return []Scale{ScaleDay, ScaleMonth, ScaleYear}
}

func ParseScale(raw string) (Scale, error) {
	s := Scale(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown scale %q", raw)
	}
	return s, nil
}

func (s Scale) Valid() bool {
	switch s {
	case ScaleDay, ScaleMonth, ScaleYear:
		return true
	default:
		return false
	}
}

// Label is the capitalised name used in user-facing messages.
func (s Scale) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// EntryTable and TaskTable double as change-notification topics.
func (s Scale) EntryTable() string { return "plan_calendar_" + string(s) }

func (s Scale) TaskTable() string { return "plan_calendar_" + string(s) + "_task" }

// Entry is a dated plan item. New marks a value that has never been stored.
type Entry struct {
	ID    int64
	Scale Scale
	Title string
	Date  time.Time
	New   bool
}

func (e Entry) IsEmpty() bool {
	return strings.TrimSpace(e.Title) == ""
}

type Task struct {
	ID          int64
	OwnerID     int64
	Scale       Scale
	Title       string
	Description string
	Done        bool
	New         bool
}

// Action is what a save request turns into at the store.
type Action int

const (
	ActionNone Action = iota
	ActionInsert
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "none"
	}
}

// EntryAction decides how a save of e is persisted. A new entry is always
// inserted, even with a blank title; an existing entry whose title was
// cleared is removed.
func EntryAction(e Entry) Action {
	switch {
	case e.New:
		return ActionInsert
	case e.IsEmpty():
		return ActionDelete
	default:
		return ActionUpdate
	}
}

func TaskAction(t Task) Action {
	if t.New {
		return ActionInsert
	}
	return ActionUpdate
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return t, nil
}
