package usecase

import (
	"context"
	"time"

	"reminder-assistant/internal/conversation/repository"
	"reminder-assistant/internal/metrics"
	"reminder-assistant/pkg/claim"
	"reminder-assistant/pkg/llmprovider"
	pkgLog "reminder-assistant/pkg/log"
)

const (
	// turnOverhead is the per-turn message framing cost added to stored counts.
	turnOverhead = 11
	// claimGrace pads the claim TTL past the LLM timeout.
	claimGrace = 30 * time.Second

	defaultTimeout           = 180 * time.Second
	defaultHeartbeatInterval = 4 * time.Second
	defaultAssistPrompt      = "You are a helpful assistant. Answer concisely in the language of the question."
)

// LLM is the chat completion capability the orchestrator needs.
type LLM interface {
	Chat(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Tokenizer counts tokens of text under a model's encoding.
type Tokenizer interface {
	Count(model, text string) int
}

// ModelSpec is a model's token budget and history window.
type ModelSpec struct {
	Name              string
	MaxRequestTokens  int
	ContextWindow     int
	TimeWindowMinutes int
}

// Config tunes the orchestrator. Models must contain DefaultModel.
type Config struct {
	Models            map[string]ModelSpec
	DefaultModel      string
	Prompts           map[string]string
	DefaultPrompt     string
	Timeout           time.Duration
	HeartbeatInterval time.Duration
	Temperature       float64
	TopP              float64
	FrequencyPenalty  float64
	PresencePenalty   float64
}

type implUseCase struct {
	l         pkgLog.Logger
	repo      repository.Repository
	claims    claim.Store
	llm       LLM
	tokenizer Tokenizer
	metrics   *metrics.Metrics
	cfg       Config
	now       func() time.Time
}

// New creates a new conversation UseCase instance. m may be nil.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	claims claim.Store,
	llm LLM,
	tokenizer Tokenizer,
	m *metrics.Metrics,
	cfg Config,
) *implUseCase {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	return &implUseCase{
		l:         l,
		repo:      repo,
		claims:    claims,
		llm:       llm,
		tokenizer: tokenizer,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}
