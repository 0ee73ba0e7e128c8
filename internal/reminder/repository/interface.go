package repository

import (
	"context"

	"reminder-assistant/internal/model"
)

// Repository is the reminder store. Every write recomputes RemindAt.
type Repository interface {
	Create(ctx context.Context, r model.Reminder) (model.Reminder, error)
	Update(ctx context.Context, r model.Reminder) (model.Reminder, error)
	Get(ctx context.Context, id string) (model.Reminder, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error

	ListByOwner(ctx context.Context, ownerID int64) ([]model.Reminder, error)
	ListInRange(ctx context.Context, opt ListInRangeOptions) ([]model.Reminder, error)
	// ListDue returns non-birthday reminders with RemindAt in (From, To].
	ListDue(ctx context.Context, opt ListDueOptions) ([]model.Reminder, error)
	// ListBirthdays returns birthdays on a month/day whose next occurrence is
	// still before opt.Before, i.e. not yet delivered and advanced.
	ListBirthdays(ctx context.Context, opt ListBirthdaysOptions) ([]model.Reminder, error)
}
