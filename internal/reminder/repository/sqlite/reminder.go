package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder/repository"
)

const selectColumns = `SELECT id, owner_id, scope, chat_id, group_chat_id, scheduled_at,
	remind_offset_minutes, remind_at, recurrence, is_birthday, text, timezone,
	calendar_event_id, created_at FROM reminders`

func (r *implRepository) Create(ctx context.Context, rem model.Reminder) (model.Reminder, error) {
	if rem.ID == "" {
		rem.ID = uuid.New().String()
	}
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = time.Now().UTC()
	}
	rem.Recompute()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (id, owner_id, scope, chat_id, group_chat_id, scheduled_at,
			remind_offset_minutes, remind_at, recurrence, is_birthday, text, timezone,
			calendar_event_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rem.ID, rem.OwnerID, string(rem.Scope), rem.ChatID, rem.GroupChatID, rem.ScheduledAtUTC.Unix(),
		rem.RemindOffsetMinutes, rem.RemindAt.Unix(), string(rem.Recurrence), rem.IsBirthday, rem.Text,
		rem.Timezone, rem.CalendarEventID, rem.CreatedAt.Unix())
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to insert reminder: %w", err)
	}
	return rem, nil
}

func (r *implRepository) Update(ctx context.Context, rem model.Reminder) (model.Reminder, error) {
	rem.Recompute()

	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders SET scheduled_at = ?, remind_offset_minutes = ?, remind_at = ?,
			recurrence = ?, is_birthday = ?, text = ?, calendar_event_id = ?
		WHERE id = ?
	`, rem.ScheduledAtUTC.Unix(), rem.RemindOffsetMinutes, rem.RemindAt.Unix(), string(rem.Recurrence),
		rem.IsBirthday, rem.Text, rem.CalendarEventID, rem.ID)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to update reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Reminder{}, repository.ErrNotFound
	}
	return rem, nil
}

func (r *implRepository) Get(ctx context.Context, id string) (model.Reminder, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rem, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reminder{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}
	return rem, nil
}

func (r *implRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteMany removes all ids in one statement. Unknown ids are ignored.
func (r *implRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("failed to delete reminders: %w", err)
	}
	return nil
}
