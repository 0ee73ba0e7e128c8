package reminder

import "errors"

// Domain-specific errors for the reminder package.
var (
	ErrEmptyInput        = errors.New("reminder text is empty")
	ErrNoDate            = errors.New("no date found in reminder text")
	ErrDuplicateReminder = errors.New("a similar reminder already exists")
	ErrNormalizerReply   = errors.New("normalizer reply could not be parsed")
	ErrNotFound          = errors.New("reminder not found")
	ErrPastDate          = errors.New("reminder time has already passed")
)

// Codes carried by classified reminder errors.
const (
	CodeEmptyInput = "empty_input"
	CodeNoDate     = "no_date"
	CodeDuplicate  = "duplicate_reminder"
	CodeNormalizer = "normalizer_reply"
	CodeNotFound   = "reminder_not_found"
	CodePastDate   = "past_date"
)
