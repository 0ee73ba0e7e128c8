package datemath

import "errors"

var (
	// ErrNoDate means no date candidate was found; the user should rephrase.
	ErrNoDate = errors.New("no date found")

	ErrInvalidTimezone = errors.New("invalid timezone")
)
