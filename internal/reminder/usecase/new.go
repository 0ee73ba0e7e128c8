package usecase

import (
	"context"
	"time"

	"reminder-assistant/internal/metrics"
	"reminder-assistant/internal/reminder/repository"
	"reminder-assistant/pkg/datemath"
	"reminder-assistant/pkg/gcalendar"
	"reminder-assistant/pkg/llmprovider"
	pkgLog "reminder-assistant/pkg/log"
)

// LLM is the chat completion capability the normalizer needs.
type LLM interface {
	Chat(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Calendar mirrors group reminders; optional.
type Calendar interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Config tunes reminder creation.
type Config struct {
	DedupWindow      time.Duration
	DedupThreshold   float64
	NormalizerModel  string // empty disables the normalizer
	NormalizerPrompt string
	DefaultTimezone  string
	CalendarID       string
}

type implUseCase struct {
	l         pkgLog.Logger
	repo      repository.Repository
	extractor *datemath.Extractor
	llm       LLM
	calendar  Calendar
	metrics   *metrics.Metrics
	cfg       Config
	now       func() time.Time
}

// New creates a new reminder UseCase instance. llm, calendar and m may be nil.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	extractor *datemath.Extractor,
	llm LLM,
	calendar Calendar,
	m *metrics.Metrics,
	cfg Config,
) *implUseCase {
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = 60 * time.Minute
	}
	if cfg.DedupThreshold <= 0 {
		cfg.DedupThreshold = 0.62
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	if cfg.NormalizerPrompt == "" {
		cfg.NormalizerPrompt = defaultNormalizerPrompt
	}
	return &implUseCase{
		l:         l,
		repo:      repo,
		extractor: extractor,
		llm:       llm,
		calendar:  calendar,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}
