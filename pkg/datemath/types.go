package datemath

import "time"

// Extraction is what Extract pulls out of a free-text reminder.
type Extraction struct {
	// UserDate is the reminder instant in the owner's timezone.
	UserDate time.Time
	// ServerDate is UserDate in UTC. Birthdays carry a zeroed time of day.
	ServerDate time.Time
	// Body is the text with the date and parameters removed, capitalized.
	Body string
	// MatchedText is the date substring as it appeared in the input.
	MatchedText string
	IsBirthday  bool

	Recurrence         Recurrence
	RecurrenceExplicit bool
	OffsetMinutes      int
	OffsetExplicit     bool

	// NeedsNormalization is set when Body still carries recurrence or offset
	// wording that was not given as a trailing parameter.
	NeedsNormalization bool
}

// params collects trailing parameter tokens split off the text.
type params struct {
	recurrence    Recurrence
	hasRecurrence bool
	offset        int
	hasOffset     bool
}
