package repository

import (
	"context"

	"reminder-assistant/internal/model"
)

// Repository stores conversation history and per-owner model selections.
type Repository interface {
	CreateTurn(ctx context.Context, t model.Turn) (model.Turn, error)
	// ListAnsweredTurns returns the owner's answered turns in [From, To), oldest first.
	ListAnsweredTurns(ctx context.Context, opt ListTurnsOptions) ([]model.Turn, error)

	GetSelection(ctx context.Context, ownerID int64) (model.ModelSelection, error)
	SaveSelection(ctx context.Context, s model.ModelSelection) error
}
