package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder/repository"
	"reminder-assistant/pkg/datemath"
)

func (r *implRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Reminder, error) {
	return r.query(ctx, selectColumns+` WHERE owner_id = ? ORDER BY scheduled_at ASC`, ownerID)
}

func (r *implRepository) ListInRange(ctx context.Context, opt repository.ListInRangeOptions) ([]model.Reminder, error) {
	q := selectColumns + ` WHERE owner_id = ? AND scope = ? AND scheduled_at BETWEEN ? AND ?`
	args := []any{opt.OwnerID, string(opt.Scope), opt.From.Unix(), opt.To.Unix()}
	if opt.Scope == model.ScopeGroup {
		q += ` AND group_chat_id = ?`
		args = append(args, opt.GroupChatID)
	}
	return r.query(ctx, q+` ORDER BY scheduled_at ASC`, args...)
}

func (r *implRepository) ListDue(ctx context.Context, opt repository.ListDueOptions) ([]model.Reminder, error) {
	return r.query(ctx, selectColumns+`
		WHERE is_birthday = 0 AND remind_at > ? AND remind_at <= ?
		ORDER BY scheduled_at ASC`, opt.From.Unix(), opt.To.Unix())
}

// ListBirthdays matches on the UTC month/day of scheduled_at, which birthdays
// store at midnight. Delivered birthdays have moved to next year and fall
// outside Before.
func (r *implRepository) ListBirthdays(ctx context.Context, opt repository.ListBirthdaysOptions) ([]model.Reminder, error) {
	return r.query(ctx, selectColumns+`
		WHERE is_birthday = 1 AND strftime('%m-%d', scheduled_at, 'unixepoch') = ? AND scheduled_at < ?
		ORDER BY scheduled_at ASC`, fmt.Sprintf("%02d-%02d", int(opt.Month), opt.Day), opt.Before.Unix())
}

func (r *implRepository) query(ctx context.Context, q string, args ...any) ([]model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (model.Reminder, error) {
	var (
		rem                              model.Reminder
		scope, recurrence                string
		scheduledAt, remindAt, createdAt int64
	)
	err := s.Scan(&rem.ID, &rem.OwnerID, &scope, &rem.ChatID, &rem.GroupChatID, &scheduledAt,
		&rem.RemindOffsetMinutes, &remindAt, &recurrence, &rem.IsBirthday, &rem.Text, &rem.Timezone,
		&rem.CalendarEventID, &createdAt)
	if err != nil {
		return model.Reminder{}, err
	}

	rem.Scope = model.ReminderScope(scope)
	rem.Recurrence = datemath.Recurrence(recurrence)
	rem.ScheduledAtUTC = time.Unix(scheduledAt, 0).UTC()
	rem.RemindAt = time.Unix(remindAt, 0).UTC()
	rem.CreatedAt = time.Unix(createdAt, 0).UTC()
	return rem, nil
}

var _ scanner = (*sql.Row)(nil)
