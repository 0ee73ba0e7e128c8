package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"reminder-assistant/internal/metrics"
	"reminder-assistant/internal/reminder/repository"
	pkgLog "reminder-assistant/pkg/log"
)

const defaultLookback = 30 * time.Minute

// Sender delivers a digest to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text, parseMode string) (int64, error)
}

// Alerter reports operational problems to operators.
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

type Config struct {
	Lookback time.Duration
	// Location decides the calendar day for birthday selection.
	Location *time.Location
}

// Scheduler delivers due reminders once a minute. Ticks never overlap.
type Scheduler struct {
	l       pkgLog.Logger
	repo    repository.Repository
	sender  Sender
	alerter Alerter
	metrics *metrics.Metrics
	cfg     Config
	now     func() time.Time

	lastTick atomic.Int64 // unix nanos of the latest tick start

	mu           sync.Mutex
	lastMinute   time.Time
	lastBirthday string
}

// New creates a Scheduler. alerter and m may be nil.
func New(l pkgLog.Logger, repo repository.Repository, sender Sender, alerter Alerter, m *metrics.Metrics, cfg Config) *Scheduler {
	if cfg.Lookback <= 0 {
		cfg.Lookback = defaultLookback
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		l:       l,
		repo:    repo,
		sender:  sender,
		alerter: alerter,
		metrics: m,
		cfg:     cfg,
		now:     time.Now,
	}
}

// LastTick returns when the latest tick started.
func (s *Scheduler) LastTick() (time.Time, bool) {
	n := s.lastTick.Load()
	if n == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, n).UTC(), true
}
