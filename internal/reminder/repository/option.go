package repository

import (
	"time"

	"reminder-assistant/internal/model"
)

// ListInRangeOptions selects one owner's reminders by ScheduledAtUTC in [From, To].
type ListInRangeOptions struct {
	OwnerID     int64
	Scope       model.ReminderScope
	GroupChatID int64 // matched only for group scope
	From        time.Time
	To          time.Time
}

// ListBirthdaysOptions selects the birthdays of one calendar day.
type ListBirthdaysOptions struct {
	Month  time.Month
	Day    int
	Before time.Time // exclusive bound on ScheduledAtUTC
}

// ListDueOptions bounds the RemindAt window of a scheduler tick.
type ListDueOptions struct {
	From time.Time // exclusive
	To   time.Time // inclusive
}
