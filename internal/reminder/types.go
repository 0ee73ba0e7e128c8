package reminder

import "reminder-assistant/internal/model"

// CreateInput is the input for reminder creation.
type CreateInput struct {
	Text string
}

// CreateOutput is the result of reminder creation.
type CreateOutput struct {
	Reminder   model.Reminder
	Normalized bool // the LLM normalizer rewrote recurrence/offset/body
}
