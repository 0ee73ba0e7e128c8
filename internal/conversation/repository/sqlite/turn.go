package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reminder-assistant/internal/conversation/repository"
	"reminder-assistant/internal/model"
)

func (r *implRepository) CreateTurn(ctx context.Context, t model.Turn) (model.Turn, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.CreatedAt = t.CreatedAt.UTC()

	var answer sql.NullString
	if t.Answer != nil {
		answer = sql.NullString{String: *t.Answer, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversation_turns (id, owner_id, question, question_tokens, answer, answer_tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.OwnerID, t.Question, t.QuestionTokens, answer, t.AnswerTokens, t.CreatedAt.UnixMilli())
	if err != nil {
		return model.Turn{}, fmt.Errorf("failed to insert turn: %w", err)
	}
	return t, nil
}

func (r *implRepository) ListAnsweredTurns(ctx context.Context, opt repository.ListTurnsOptions) ([]model.Turn, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, question, question_tokens, answer, answer_tokens, created_at
		FROM conversation_turns
		WHERE owner_id = ? AND answer IS NOT NULL AND created_at >= ? AND created_at < ?
		ORDER BY created_at ASC
	`, opt.OwnerID, opt.From.UnixMilli(), opt.To.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []model.Turn
	for rows.Next() {
		var (
			t         model.Turn
			answer    sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Question, &t.QuestionTokens, &answer, &t.AnswerTokens, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if answer.Valid {
			a := answer.String
			t.Answer = &a
		}
		t.CreatedAt = time.UnixMilli(createdAt).UTC()
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
