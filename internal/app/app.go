// Package app wires the reminder assistant from config. Binaries take the
// parts they need.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"reminder-assistant/config"
	tgDelivery "reminder-assistant/internal/assistant/delivery/telegram"
	"reminder-assistant/internal/conversation"
	conversationSQLite "reminder-assistant/internal/conversation/repository/sqlite"
	conversationUC "reminder-assistant/internal/conversation/usecase"
	"reminder-assistant/internal/metrics"
	"reminder-assistant/internal/reminder"
	reminderRepo "reminder-assistant/internal/reminder/repository"
	reminderSQLite "reminder-assistant/internal/reminder/repository/sqlite"
	reminderUC "reminder-assistant/internal/reminder/usecase"
	"reminder-assistant/internal/router"
	"reminder-assistant/internal/scheduler"
	"reminder-assistant/pkg/claim"
	"reminder-assistant/pkg/datemath"
	"reminder-assistant/pkg/gcalendar"
	"reminder-assistant/pkg/intent"
	"reminder-assistant/pkg/llmprovider"
	pkgLog "reminder-assistant/pkg/log"
	"reminder-assistant/pkg/sqlitedb"
	pkgTelegram "reminder-assistant/pkg/telegram"
	"reminder-assistant/pkg/tokenizer"
)

const normalizerPromptKey = "normalizer"

// App is the wired object graph.
type App struct {
	Config *config.Config
	Logger pkgLog.Logger

	DB    *sql.DB
	Redis *redis.Client // nil with the in-process claim store

	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Bot      *pkgTelegram.Bot // nil without a bot token
	Reporter *tgDelivery.AdminReporter

	Reminders      reminderRepo.Repository
	ReminderUC     reminder.UseCase
	ConversationUC conversation.UseCase
	Router         router.Router
}

// New builds the graph. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, l pkgLog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: l}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.MustNewMetrics(a.Registry)

	db, err := sqlitedb.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.SQLite.Path, err)
	}
	a.DB = db

	reminders, err := reminderSQLite.New(ctx, db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init reminder store: %w", err)
	}
	a.Reminders = reminders

	turns, err := conversationSQLite.New(ctx, db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init conversation store: %w", err)
	}

	claims, err := a.claimStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	llm, err := llmprovider.NewManagerFromConfig(&cfg.LLM, l)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init LLM providers: %w", err)
	}

	if cfg.Telegram.BotToken != "" {
		a.Bot = pkgTelegram.NewBot(cfg.Telegram.BotToken)
		a.Reporter = tgDelivery.NewAdminReporter(l, a.Bot, cfg.Telegram.AdminChatID)
	} else {
		l.Warn(ctx, "app.New: telegram.bot_token is empty, Telegram delivery disabled")
	}

	a.ReminderUC = reminderUC.New(l, reminders, datemath.NewExtractor(), llm, a.calendar(ctx), a.Metrics, reminderUC.Config{
		DedupWindow:      cfg.Reminder.DedupWindow,
		DedupThreshold:   cfg.Reminder.DedupThreshold,
		NormalizerModel:  cfg.Reminder.NormalizerModel,
		NormalizerPrompt: cfg.LLM.Prompts[normalizerPromptKey],
		DefaultTimezone:  cfg.Reminder.DefaultTimezone,
		CalendarID:       cfg.GoogleCalendar.CalendarID,
	})

	a.ConversationUC = conversationUC.New(l, turns, claims, llm, tokenizer.New(), a.Metrics, conversationConfig(&cfg.LLM))

	if cfg.Intent.URL != "" {
		a.Router = router.New(intent.NewClient(cfg.Intent.URL, cfg.Intent.Timeout), l)
	} else {
		l.Warn(ctx, "app.New: intent.url is empty, every message is routed to chat")
		a.Router = router.New(nil, l)
	}

	return a, nil
}

// NewScheduler builds a scheduler delivering through sender.
func (a *App) NewScheduler(sender scheduler.Sender) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(a.Config.Scheduler.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler.location %q: %w", a.Config.Scheduler.Location, err)
	}
	var alerter scheduler.Alerter
	if a.Reporter != nil {
		alerter = a.Reporter
	}
	return scheduler.New(a.Logger, a.Reminders, sender, alerter, a.Metrics, scheduler.Config{
		Lookback: a.Config.Scheduler.Lookback,
		Location: loc,
	}), nil
}

// TelegramHandler builds the webhook handler; nil without a bot.
func (a *App) TelegramHandler() tgDelivery.Handler {
	if a.Bot == nil {
		return nil
	}
	return tgDelivery.New(a.Logger, a.Bot, a.Router, a.ReminderUC, a.ConversationUC, a.Reporter, tgDelivery.Config{
		WebhookSecret:   a.Config.Telegram.WebhookSecret,
		RateLimitPerMin: a.Config.Telegram.RateLimitPerMin,
		DefaultTimezone: a.Config.Reminder.DefaultTimezone,
	})
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warnf(context.Background(), "app.Close: redis: %v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warnf(context.Background(), "app.Close: sqlite: %v", err)
		}
	}
}

// claimStore picks Redis when configured, else an in-process store that is
// only correct for a single replica.
func (a *App) claimStore(ctx context.Context) (claim.Store, error) {
	cfg := a.Config
	if cfg.Redis.Addr == "" {
		a.Logger.Info(ctx, "app.New: using in-process claim store")
		return claim.NewMemoryStore(cfg.LLM.Timeout + time.Minute), nil
	}

	a.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Redis.Addr, err)
	}
	a.Logger.Infof(ctx, "app.New: using redis claim store at %s", cfg.Redis.Addr)
	return claim.NewRedisStore(a.Redis), nil
}

// calendar returns nil when the mirror is not configured or fails to load.
func (a *App) calendar(ctx context.Context) reminderUC.Calendar {
	path := a.Config.GoogleCalendar.CredentialsPath
	if path == "" {
		return nil
	}
	client, err := gcalendar.NewClientFromCredentialsFile(ctx, path)
	if err != nil {
		a.Logger.Warnf(ctx, "app.New: Google Calendar not available (optional): %v", err)
		a.Logger.Warn(ctx, "→ Run `remindctl calendar-auth` to generate token.json")
		return nil
	}
	a.Logger.Info(ctx, "app.New: Google Calendar mirror enabled")
	return client
}

func conversationConfig(cfg *config.LLMConfig) conversationUC.Config {
	models := make(map[string]conversationUC.ModelSpec, len(cfg.Models))
	for _, m := range cfg.Models {
		models[m.Name] = conversationUC.ModelSpec{
			Name:              m.Name,
			MaxRequestTokens:  m.MaxRequestTokens,
			ContextWindow:     m.ContextWindow,
			TimeWindowMinutes: m.TimeWindowMinutes,
		}
	}
	return conversationUC.Config{
		Models:            models,
		DefaultModel:      cfg.DefaultModel,
		Prompts:           cfg.Prompts,
		DefaultPrompt:     cfg.DefaultPrompt,
		Timeout:           cfg.Timeout,
		HeartbeatInterval: cfg.HeartbeatInterval,
		Temperature:       cfg.Temperature,
		TopP:              cfg.TopP,
		FrequencyPenalty:  cfg.FrequencyPenalty,
		PresencePenalty:   cfg.PresencePenalty,
	}
}
