package usecase

import (
	"context"
	"time"

	"reminder-assistant/internal/model"
	"reminder-assistant/pkg/datemath"
	"reminder-assistant/pkg/gcalendar"
)

var calendarRules = map[datemath.Recurrence]string{
	datemath.RecurrenceDaily:   "RRULE:FREQ=DAILY",
	datemath.RecurrenceWeekly:  "RRULE:FREQ=WEEKLY",
	datemath.RecurrenceMonthly: "RRULE:FREQ=MONTHLY",
	datemath.RecurrenceYearly:  "RRULE:FREQ=YEARLY",
}

// mirrorToCalendar copies a group reminder into the shared calendar and
// returns the event ID. Failures are logged and yield "".
func (uc *implUseCase) mirrorToCalendar(ctx context.Context, rem model.Reminder) string {
	if uc.calendar == nil {
		return ""
	}

	req := gcalendar.CreateEventRequest{
		CalendarID: uc.cfg.CalendarID,
		Summary:    rem.Text,
		StartTime:  rem.ScheduledAtUTC,
		EndTime:    rem.ScheduledAtUTC.Add(30 * time.Minute),
		Timezone:   rem.Timezone,
		AllDay:     rem.IsBirthday,
	}
	if rule, ok := calendarRules[rem.Recurrence]; ok {
		req.Recurrence = []string{rule}
	}
	if rem.RemindOffsetMinutes > 0 {
		req.ReminderMinutes = rem.RemindOffsetMinutes
	}

	event, err := uc.calendar.CreateEvent(ctx, req)
	if err != nil {
		uc.l.Warnf(ctx, "reminder.usecase.mirrorToCalendar: owner=%d: %v", rem.OwnerID, err)
		return ""
	}
	return event.ID
}
