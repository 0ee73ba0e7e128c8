package reminder

import (
	"context"

	"reminder-assistant/internal/model"
)

// UseCase defines the business logic interface for the reminder domain.
type UseCase interface {
	// Create extracts a date from free text, optionally normalizes prose
	// recurrence through the LLM, rejects near-duplicates and stores the reminder.
	Create(ctx context.Context, sc model.Scope, input CreateInput) (CreateOutput, error)

	// List returns the reminders created by the caller, soonest first.
	List(ctx context.Context, sc model.Scope) ([]model.Reminder, error)

	// Delete removes one of the caller's reminders.
	Delete(ctx context.Context, sc model.Scope, id string) error
}
