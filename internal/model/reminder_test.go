package model

import (
	"testing"
	"time"

	"reminder-assistant/pkg/datemath"
)

func TestReminderRecompute(t *testing.T) {
	r := Reminder{
		ScheduledAtUTC:      time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
		RemindOffsetMinutes: 120,
	}
	r.Recompute()

	if want := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC); !r.RemindAt.Equal(want) {
		t.Errorf("RemindAt = %v, want %v", r.RemindAt, want)
	}
	if r.Recurrence != datemath.RecurrenceNone {
		t.Errorf("Recurrence = %q, want N", r.Recurrence)
	}
}

func TestReminderRecompute_Birthday(t *testing.T) {
	r := Reminder{
		ScheduledAtUTC: time.Date(2025, 3, 8, 14, 45, 0, 0, time.UTC),
		IsBirthday:     true,
		Recurrence:     datemath.RecurrenceNone,
	}
	r.Recompute()

	if want := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC); !r.ScheduledAtUTC.Equal(want) {
		t.Errorf("ScheduledAtUTC = %v, want zeroed time of day", r.ScheduledAtUTC)
	}
	if r.Recurrence != datemath.RecurrenceYearly {
		t.Errorf("birthday must recur yearly, got %q", r.Recurrence)
	}
}

func TestReminderAdvance(t *testing.T) {
	tests := []struct {
		name       string
		recurrence datemath.Recurrence
		want       time.Time
		advanced   bool
	}{
		{"none", datemath.RecurrenceNone, time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC), false},
		{"daily", datemath.RecurrenceDaily, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), true},
		{"weekly", datemath.RecurrenceWeekly, time.Date(2025, 2, 7, 9, 0, 0, 0, time.UTC), true},
		{"monthly clamps", datemath.RecurrenceMonthly, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), true},
		{"yearly", datemath.RecurrenceYearly, time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reminder{
				ScheduledAtUTC:      time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC),
				RemindOffsetMinutes: 15,
				Recurrence:          tt.recurrence,
			}
			r.Recompute()

			if got := r.Advance(); got != tt.advanced {
				t.Fatalf("Advance() = %v, want %v", got, tt.advanced)
			}
			if !r.ScheduledAtUTC.Equal(tt.want) {
				t.Errorf("ScheduledAtUTC = %v, want %v", r.ScheduledAtUTC, tt.want)
			}
			if want := tt.want.Add(-15 * time.Minute); !r.RemindAt.Equal(want) {
				t.Errorf("RemindAt = %v, want %v", r.RemindAt, want)
			}
		})
	}
}

func TestReminderAdvance_LocalCalendar(t *testing.T) {
	moscow, _ := time.LoadLocation("Europe/Moscow")
	newYork, _ := time.LoadLocation("America/New_York")

	tests := []struct {
		name       string
		timezone   string
		recurrence datemath.Recurrence
		start      time.Time
		steps      int
		want       time.Time
	}{
		{
			name:       "monthly keeps the local first of the month",
			timezone:   "Europe/Moscow",
			recurrence: datemath.RecurrenceMonthly,
			start:      time.Date(2026, 3, 1, 1, 0, 0, 0, moscow),
			steps:      3,
			want:       time.Date(2026, 6, 1, 1, 0, 0, 0, moscow),
		},
		{
			name:       "daily keeps local time across DST",
			timezone:   "America/New_York",
			recurrence: datemath.RecurrenceDaily,
			start:      time.Date(2026, 3, 7, 9, 0, 0, 0, newYork),
			steps:      2,
			want:       time.Date(2026, 3, 9, 9, 0, 0, 0, newYork),
		},
		{
			name:       "weekly keeps local time across DST",
			timezone:   "America/New_York",
			recurrence: datemath.RecurrenceWeekly,
			start:      time.Date(2026, 3, 3, 18, 30, 0, 0, newYork),
			steps:      1,
			want:       time.Date(2026, 3, 10, 18, 30, 0, 0, newYork),
		},
		{
			name:       "unknown timezone advances in UTC",
			timezone:   "Mars/Olympus",
			recurrence: datemath.RecurrenceDaily,
			start:      time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC),
			steps:      1,
			want:       time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reminder{
				ScheduledAtUTC:      tt.start,
				RemindOffsetMinutes: 30,
				Recurrence:          tt.recurrence,
				Timezone:            tt.timezone,
			}
			r.Recompute()

			for i := 0; i < tt.steps; i++ {
				r.Advance()
			}
			if !r.ScheduledAtUTC.Equal(tt.want) {
				t.Errorf("ScheduledAtUTC = %v, want %v", r.ScheduledAtUTC, tt.want.UTC())
			}
			if r.ScheduledAtUTC.Location() != time.UTC {
				t.Errorf("ScheduledAtUTC must stay in UTC, got %v", r.ScheduledAtUTC.Location())
			}
			if want := tt.want.Add(-30 * time.Minute); !r.RemindAt.Equal(want) {
				t.Errorf("RemindAt = %v, want %v", r.RemindAt, want.UTC())
			}
		})
	}
}

func TestReminderAdvance_BirthdayIgnoresTimezone(t *testing.T) {
	r := Reminder{
		ScheduledAtUTC: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		IsBirthday:     true,
		Timezone:       "Europe/Moscow",
	}
	r.Recompute()
	r.Advance()

	if want := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC); !r.ScheduledAtUTC.Equal(want) {
		t.Errorf("ScheduledAtUTC = %v, want %v", r.ScheduledAtUTC, want)
	}
}

func TestRecipientChatID(t *testing.T) {
	private := Reminder{Scope: ScopePrivate, ChatID: 10, GroupChatID: 99}
	group := Reminder{Scope: ScopeGroup, ChatID: 10, GroupChatID: -100}

	if private.RecipientChatID() != 10 {
		t.Errorf("private reminder should go to owner chat")
	}
	if group.RecipientChatID() != -100 {
		t.Errorf("group reminder should go to group chat")
	}
}
