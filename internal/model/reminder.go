package model

import (
	"time"

	"reminder-assistant/pkg/datemath"
)

// ReminderScope says who a reminder belongs to and where it is delivered.
type ReminderScope string

const (
	ScopePrivate ReminderScope = "private"
	ScopeGroup   ReminderScope = "group"
)

// Reminder is a scheduled notification owned by a user or shared in a group.
type Reminder struct {
	ID                  string
	OwnerID             int64 // Telegram user ID of the creator
	Scope               ReminderScope
	ChatID              int64 // owner's private chat
	GroupChatID         int64 // set for ScopeGroup only
	ScheduledAtUTC      time.Time
	RemindOffsetMinutes int
	Recurrence          datemath.Recurrence
	IsBirthday          bool
	Text                string
	Timezone            string // IANA name the reminder was created in
	CalendarEventID     string // mirrored Google Calendar event, if any
	CreatedAt           time.Time
	RemindAt            time.Time // derived, see Recompute
}

// Recompute refreshes the derived fields. Call after every mutation.
func (r *Reminder) Recompute() {
	r.ScheduledAtUTC = r.ScheduledAtUTC.UTC()
	if r.IsBirthday {
		y, m, d := r.ScheduledAtUTC.Date()
		r.ScheduledAtUTC = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		r.Recurrence = datemath.RecurrenceYearly
	}
	if r.Recurrence == "" {
		r.Recurrence = datemath.RecurrenceNone
	}
	r.RemindAt = r.ScheduledAtUTC.Add(-time.Duration(r.RemindOffsetMinutes) * time.Minute)
}

// Advance moves a recurring reminder one interval forward on the wall clock of
// its timezone, so local time of day and day of month survive DST and month
// clamping. The offset is kept, so RemindAt follows. Returns false for
// non-recurring reminders.
func (r *Reminder) Advance() bool {
	if !r.Recurrence.IsRecurring() {
		return false
	}
	r.ScheduledAtUTC = r.Recurrence.Advance(r.ScheduledAtUTC.In(r.location())).UTC()
	r.Recompute()
	return true
}

// location is the reminder's timezone. Birthdays are date-only and stay in UTC;
// an unknown name falls back to UTC.
func (r *Reminder) location() *time.Location {
	if r.IsBirthday || r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RecipientChatID is where a due reminder is delivered.
func (r *Reminder) RecipientChatID() int64 {
	if r.Scope == ScopeGroup && r.GroupChatID != 0 {
		return r.GroupChatID
	}
	return r.ChatID
}
