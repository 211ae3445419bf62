package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Today returns the calendar date of c.Now() at midnight in its location.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf drops the time of day, keeping the location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
