package usecase

import (
	"context"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder"
	"reminder-assistant/internal/reminder/repository"
	pkgErrors "reminder-assistant/pkg/errors"
	"reminder-assistant/pkg/textsim"
)

// checkDuplicate rejects rem when the same owner already has a reminder in the
// same scope within the dedup window whose text is similar enough.
func (uc *implUseCase) checkDuplicate(ctx context.Context, rem model.Reminder) error {
	existing, err := uc.repo.ListInRange(ctx, repository.ListInRangeOptions{
		OwnerID:     rem.OwnerID,
		Scope:       rem.Scope,
		GroupChatID: rem.GroupChatID,
		From:        rem.ScheduledAtUTC.Add(-uc.cfg.DedupWindow),
		To:          rem.ScheduledAtUTC.Add(uc.cfg.DedupWindow),
	})
	if err != nil {
		return pkgErrors.NewUnhandled("reminder_store", "failed to load nearby reminders", err)
	}

	for _, other := range existing {
		if ratio := textsim.Ratio(rem.Text, other.Text); ratio >= uc.cfg.DedupThreshold {
			uc.l.Infof(ctx, "reminder.usecase.checkDuplicate: owner=%d matches %s ratio=%.2f", rem.OwnerID, other.ID, ratio)
			return pkgErrors.NewConflict(reminder.CodeDuplicate, other.Text, reminder.ErrDuplicateReminder)
		}
	}
	return nil
}
