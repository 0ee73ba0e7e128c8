package router

import (
	"context"

	"reminder-assistant/pkg/intent"
	"reminder-assistant/pkg/log"
)

// Router is the interface for intent routing
type Router interface {
	Classify(ctx context.Context, message string) RouterOutput
}

// Classifier is the external intent classifier.
type Classifier interface {
	Classify(ctx context.Context, text string) (intent.Class, error)
}

// IntentRouter routes messages by the classifier's verdict.
type IntentRouter struct {
	classifier Classifier
	l          log.Logger
}

var _ Router = (*IntentRouter)(nil)

// New creates a new IntentRouter. classifier may be nil, routing everything to chat.
func New(classifier Classifier, l log.Logger) *IntentRouter {
	return &IntentRouter{
		classifier: classifier,
		l:          l,
	}
}
