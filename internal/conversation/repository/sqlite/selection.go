package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"reminder-assistant/internal/conversation/repository"
	"reminder-assistant/internal/model"
)

func (r *implRepository) GetSelection(ctx context.Context, ownerID int64) (model.ModelSelection, error) {
	var (
		s            model.ModelSelection
		allowed      string
		sessionStart sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT owner_id, model, allowed_models, prompt_template, time_window_minutes, session_start
		FROM model_selections WHERE owner_id = ?
	`, ownerID).Scan(&s.OwnerID, &s.Model, &allowed, &s.PromptTemplate, &s.TimeWindowMinutes, &sessionStart)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ModelSelection{}, repository.ErrSelectionNotFound
	}
	if err != nil {
		return model.ModelSelection{}, fmt.Errorf("failed to get model selection: %w", err)
	}

	if allowed != "" {
		s.AllowedModels = strings.Split(allowed, ",")
	}
	if sessionStart.Valid {
		t := time.UnixMilli(sessionStart.Int64).UTC()
		s.SessionStart = &t
	}
	return s, nil
}

// SaveSelection upserts s. A stored SessionStart is never moved backward.
func (r *implRepository) SaveSelection(ctx context.Context, s model.ModelSelection) error {
	var sessionStart sql.NullInt64
	if s.SessionStart != nil {
		sessionStart = sql.NullInt64{Int64: s.SessionStart.UnixMilli(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO model_selections (owner_id, model, allowed_models, prompt_template, time_window_minutes, session_start)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			model = excluded.model,
			allowed_models = excluded.allowed_models,
			prompt_template = excluded.prompt_template,
			time_window_minutes = excluded.time_window_minutes,
			session_start = CASE
				WHEN model_selections.session_start IS NULL THEN excluded.session_start
				WHEN excluded.session_start IS NULL THEN model_selections.session_start
				ELSE MAX(model_selections.session_start, excluded.session_start)
			END
	`, s.OwnerID, s.Model, strings.Join(s.AllowedModels, ","), s.PromptTemplate, s.TimeWindowMinutes, sessionStart)
	if err != nil {
		return fmt.Errorf("failed to save model selection: %w", err)
	}
	return nil
}
