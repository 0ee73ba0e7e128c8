package gcalendar

import "time"

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID      string
	Summary         string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	Timezone        string   // e.g. "Europe/Moscow"
	AllDay          bool     // EndTime is ignored
	Recurrence      []string // e.g. "RRULE:FREQ=WEEKLY"
	ReminderMinutes int      // popup this many minutes before; 0 keeps calendar defaults
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
}
