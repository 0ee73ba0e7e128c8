package usecase

import (
	"context"
	"errors"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder"
	"reminder-assistant/internal/reminder/repository"
	pkgErrors "reminder-assistant/pkg/errors"
)

func (uc *implUseCase) List(ctx context.Context, sc model.Scope) ([]model.Reminder, error) {
	items, err := uc.repo.ListByOwner(ctx, sc.UserID)
	if err != nil {
		uc.l.Errorf(ctx, "reminder.usecase.List: repo.ListByOwner failed: %v", err)
		return nil, pkgErrors.NewUnhandled("reminder_store", "failed to list reminders", err)
	}
	return items, nil
}

// Delete only removes reminders owned by the caller; others look missing.
func (uc *implUseCase) Delete(ctx context.Context, sc model.Scope, id string) error {
	rem, err := uc.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && rem.OwnerID != sc.UserID) {
		return pkgErrors.NewValidation(reminder.CodeNotFound, id, reminder.ErrNotFound)
	}
	if err != nil {
		return pkgErrors.NewUnhandled("reminder_store", "failed to load reminder", err)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return pkgErrors.NewValidation(reminder.CodeNotFound, id, reminder.ErrNotFound)
		}
		return pkgErrors.NewUnhandled("reminder_store", "failed to delete reminder", err)
	}

	if rem.CalendarEventID != "" && uc.calendar != nil {
		if err := uc.calendar.DeleteEvent(ctx, uc.cfg.CalendarID, rem.CalendarEventID); err != nil {
			uc.l.Warnf(ctx, "reminder.usecase.Delete: calendar event %s not removed: %v", rem.CalendarEventID, err)
		}
	}
	return nil
}
