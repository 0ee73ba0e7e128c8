package datemath_test

import (
	"testing"
	"time"

	"reminder-assistant/pkg/datemath"
)

func TestRecurrenceAdvance(t *testing.T) {
	at := func(y int, m time.Month, d, h int) time.Time {
		return time.Date(y, m, d, h, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		rec  datemath.Recurrence
		in   time.Time
		want time.Time
	}{
		{"daily", datemath.RecurrenceDaily, at(2025, 1, 31, 8), at(2025, 2, 1, 8)},
		{"weekly", datemath.RecurrenceWeekly, at(2025, 12, 29, 8), at(2026, 1, 5, 8)},
		{"monthly plain", datemath.RecurrenceMonthly, at(2025, 3, 15, 8), at(2025, 4, 15, 8)},
		{"monthly clamps Jan 31", datemath.RecurrenceMonthly, at(2025, 1, 31, 8), at(2025, 2, 28, 8)},
		{"monthly clamps leap year", datemath.RecurrenceMonthly, at(2024, 1, 31, 8), at(2024, 2, 29, 8)},
		{"monthly over year end", datemath.RecurrenceMonthly, at(2025, 12, 31, 8), at(2026, 1, 31, 8)},
		{"yearly", datemath.RecurrenceYearly, at(2025, 6, 1, 8), at(2026, 6, 1, 8)},
		{"yearly clamps Feb 29", datemath.RecurrenceYearly, at(2024, 2, 29, 0), at(2025, 2, 28, 0)},
		{"none unchanged", datemath.RecurrenceNone, at(2025, 6, 1, 8), at(2025, 6, 1, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Advance(tt.in); !got.Equal(tt.want) {
				t.Errorf("Advance(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	for _, code := range []string{"N", "d", " W ", "m", "Y"} {
		if _, ok := datemath.ParseRecurrence(code); !ok {
			t.Errorf("expected %q to parse", code)
		}
	}
	for _, code := range []string{"", "X", "weekly"} {
		if _, ok := datemath.ParseRecurrence(code); ok {
			t.Errorf("expected %q to be rejected", code)
		}
	}
	if datemath.RecurrenceNone.IsRecurring() || !datemath.RecurrenceMonthly.IsRecurring() {
		t.Error("IsRecurring mismatch")
	}
}
