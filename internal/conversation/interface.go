package conversation

import (
	"context"

	"reminder-assistant/internal/model"
)

// ReplySink is the channel a request came from. Implementations are per
// transport and per chat.
type ReplySink interface {
	SendTyping(ctx context.Context) error
	SendReply(ctx context.Context, text string) error
}

type UseCase interface {
	// Ask answers a free-text question through the owner's model, replying via sink.
	Ask(ctx context.Context, sc model.Scope, input AskInput, sink ReplySink) (AskOutput, error)
	// ResetSession starts a new history window at now.
	ResetSession(ctx context.Context, sc model.Scope) error
	// CurrentModel returns the owner's selection, creating the default one if needed.
	CurrentModel(ctx context.Context, sc model.Scope) (model.ModelSelection, error)
	// SelectModel switches the owner to one of the allowed models.
	SelectModel(ctx context.Context, sc model.Scope, name string) (model.ModelSelection, error)
}
