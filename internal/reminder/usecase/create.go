package usecase

import (
	"context"
	"errors"
	"strings"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder"
	"reminder-assistant/pkg/datemath"
	pkgErrors "reminder-assistant/pkg/errors"
)

func (uc *implUseCase) Create(ctx context.Context, sc model.Scope, input reminder.CreateInput) (reminder.CreateOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return reminder.CreateOutput{}, pkgErrors.NewValidation(reminder.CodeEmptyInput, "", reminder.ErrEmptyInput)
	}

	tz := sc.Timezone
	if tz == "" {
		tz = uc.cfg.DefaultTimezone
	}

	ex, err := uc.extractor.Extract(text, tz, uc.now())
	if errors.Is(err, datemath.ErrNoDate) {
		return reminder.CreateOutput{}, pkgErrors.NewValidation(reminder.CodeNoDate, "", reminder.ErrNoDate)
	}
	if err != nil {
		return reminder.CreateOutput{}, pkgErrors.NewValidation("invalid_timezone", "", err)
	}

	normalized := false
	if ex.NeedsNormalization && uc.llm != nil && uc.cfg.NormalizerModel != "" {
		if err := uc.normalize(ctx, text, tz, ex); err != nil {
			uc.l.Warnf(ctx, "reminder.usecase.Create: normalizer failed: %v", err)
			return reminder.CreateOutput{}, err
		}
		normalized = true
	}

	rem := model.Reminder{
		OwnerID:             sc.UserID,
		Scope:               sc.ReminderScope(),
		ChatID:              sc.ChatID,
		GroupChatID:         sc.GroupChatID,
		ScheduledAtUTC:      ex.ServerDate,
		RemindOffsetMinutes: ex.OffsetMinutes,
		Recurrence:          ex.Recurrence,
		IsBirthday:          ex.IsBirthday,
		Text:                ex.Body,
		Timezone:            tz,
	}
	if rem.Text == "" {
		rem.Text = text
	}
	rem.Recompute()

	// A one-off already due would never enter a scheduler window. A series
	// starts at its next occurrence. Birthdays are selected by calendar day.
	if now := uc.now(); !rem.IsBirthday && !rem.RemindAt.After(now) {
		if !rem.Recurrence.IsRecurring() {
			return reminder.CreateOutput{}, pkgErrors.NewValidation(reminder.CodePastDate,
				rem.RemindAt.Format("2006-01-02T15:04Z"), reminder.ErrPastDate)
		}
		for rem.Advance() {
			if rem.RemindAt.After(now) {
				break
			}
		}
	}

	if err := uc.checkDuplicate(ctx, rem); err != nil {
		return reminder.CreateOutput{}, err
	}

	if rem.Scope == model.ScopeGroup {
		rem.CalendarEventID = uc.mirrorToCalendar(ctx, rem)
	}

	created, err := uc.repo.Create(ctx, rem)
	if err != nil {
		uc.l.Errorf(ctx, "reminder.usecase.Create: repo.Create failed: %v", err)
		return reminder.CreateOutput{}, pkgErrors.NewUnhandled("reminder_store", "failed to store reminder", err)
	}

	uc.metrics.IncReminderCreated(string(created.Scope))
	uc.l.Infof(ctx, "reminder.usecase.Create: owner=%d id=%s at=%s recurrence=%s normalized=%v",
		created.OwnerID, created.ID, created.ScheduledAtUTC.Format("2006-01-02T15:04Z"), created.Recurrence, normalized)

	return reminder.CreateOutput{Reminder: created, Normalized: normalized}, nil
}
