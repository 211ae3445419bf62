package planner

import (
	"strings"
	"time"
)

func scaleTitle(scale string) string {
	switch scale {
	case "day":
		return "Days"
	case "month":
		return "Months"
	case "year":
		return "Years"
	}
	return scale
}

// FormatDate renders date at the precision of scale.
func FormatDate(scale string, date time.Time) string {
	switch scale {
	case "month":
		return date.Format("Jan 2006")
	case "year":
		return date.Format("2006")
	default:
		return date.Format("Mon 02 Jan")
	}
}

// DefaultDate is the date a new entry of scale gets: today, the first of
// this month or the first of this year.
func DefaultDate(scale string, today time.Time) time.Time {
	y, mo, d := today.Date()
	switch scale {
	case "month":
		d = 1
	case "year":
		mo, d = time.January, 1
	}
	return time.Date(y, mo, d, 0, 0, 0, 0, today.Location())
}

// ParseEntryInput splits an optional leading YYYY-MM-DD off value.
func ParseEntryInput(value string, fallback time.Time) (time.Time, string) {
	value = strings.TrimSpace(value)
	head, rest, _ := strings.Cut(value, " ")
	if date, err := time.ParseInLocation(time.DateOnly, head, fallback.Location()); err == nil {
		return date, strings.TrimSpace(rest)
	}
	return fallback, value
}
