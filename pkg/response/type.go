package response

import (
	"encoding/json"
	"time"
)

// Resp is the JSON envelope of every HTTP answer. ErrorCode is 0 on success,
// else the HTTP status.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// DateTime marshals as RFC 3339 in UTC, the zone reminders are stored in.
type DateTime time.Time

// MarshalJSON implements json.Marshaler for DateTime.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).UTC().Format(time.RFC3339))
}
