package datemath

import (
	"strings"
	"time"
)

// Recurrence is the interval a reminder advances by after it fires.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "N"
	RecurrenceDaily   Recurrence = "D"
	RecurrenceWeekly  Recurrence = "W"
	RecurrenceMonthly Recurrence = "M"
	RecurrenceYearly  Recurrence = "Y"
)

// ParseRecurrence accepts a single-letter code, case-insensitive.
func ParseRecurrence(code string) (Recurrence, bool) {
	switch r := Recurrence(strings.ToUpper(strings.TrimSpace(code))); r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return r, true
	default:
		return "", false
	}
}

// IsRecurring is false for RecurrenceNone and the zero value.
func (r Recurrence) IsRecurring() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// Advance moves t forward by one interval. Monthly and yearly steps keep the
// day of month and clamp to the last day of the target month
// (Jan 31 -> Feb 28/29, Feb 29 -> Feb 28). Non-recurring values return t.
func (r Recurrence) Advance(t time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return addMonthsClamped(t, 1)
	case RecurrenceYearly:
		return addMonthsClamped(t, 12)
	default:
		return t
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
