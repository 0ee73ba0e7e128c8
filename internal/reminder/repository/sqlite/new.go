package sqlite

import (
	"context"
	"database/sql"

	"reminder-assistant/pkg/sqlitedb"
)

type implRepository struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		owner_id INTEGER NOT NULL,
		scope TEXT NOT NULL,
		chat_id INTEGER NOT NULL,
		group_chat_id INTEGER NOT NULL DEFAULT 0,
		scheduled_at INTEGER NOT NULL,
		remind_offset_minutes INTEGER NOT NULL DEFAULT 0,
		remind_at INTEGER NOT NULL,
		recurrence TEXT NOT NULL DEFAULT 'N',
		is_birthday INTEGER NOT NULL DEFAULT 0,
		text TEXT NOT NULL,
		timezone TEXT NOT NULL,
		calendar_event_id TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_owner ON reminders(owner_id, scope, scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_remind_at ON reminders(is_birthday, remind_at)`,
}

// New creates the reminders table if needed and returns the repository.
func New(ctx context.Context, db *sql.DB) (*implRepository, error) {
	if err := sqlitedb.Migrate(ctx, db, schema...); err != nil {
		return nil, err
	}
	return &implRepository{db: db}, nil
}
