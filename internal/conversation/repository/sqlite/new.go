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
	`CREATE TABLE IF NOT EXISTS conversation_turns (
		id TEXT PRIMARY KEY,
		owner_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		question_tokens INTEGER NOT NULL DEFAULT 0,
		answer TEXT,
		answer_tokens INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_turns_owner_created ON conversation_turns(owner_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS model_selections (
		owner_id INTEGER PRIMARY KEY,
		model TEXT NOT NULL,
		allowed_models TEXT NOT NULL DEFAULT '',
		prompt_template TEXT NOT NULL DEFAULT '',
		time_window_minutes INTEGER NOT NULL DEFAULT 0,
		session_start INTEGER
	)`,
}

// New creates the conversation tables if needed and returns the repository.
func New(ctx context.Context, db *sql.DB) (*implRepository, error) {
	if err := sqlitedb.Migrate(ctx, db, schema...); err != nil {
		return nil, err
	}
	return &implRepository{db: db}, nil
}
