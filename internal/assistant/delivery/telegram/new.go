package telegram

import (
	"context"

	"github.com/gin-gonic/gin"

	"reminder-assistant/internal/conversation"
	"reminder-assistant/internal/reminder"
	"reminder-assistant/internal/router"
	pkgLog "reminder-assistant/pkg/log"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Bot is the outbound Telegram API the handler needs.
type Bot interface {
	Send(ctx context.Context, chatID int64, text, parseMode string) (int64, error)
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

type Config struct {
	// WebhookSecret must match X-Telegram-Bot-Api-Secret-Token when set.
	WebhookSecret   string
	RateLimitPerMin int
	DefaultTimezone string
}

type handler struct {
	l              pkgLog.Logger
	bot            Bot
	router         router.Router
	reminderUC     reminder.UseCase
	conversationUC conversation.UseCase
	reporter       *AdminReporter
	security       *securityValidator
	cfg            Config
}

// New creates a new Telegram delivery handler. reporter may be nil.
func New(
	l pkgLog.Logger,
	bot Bot,
	r router.Router,
	reminderUC reminder.UseCase,
	conversationUC conversation.UseCase,
	reporter *AdminReporter,
	cfg Config,
) Handler {
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	return &handler{
		l:              l,
		bot:            bot,
		router:         r,
		reminderUC:     reminderUC,
		conversationUC: conversationUC,
		reporter:       reporter,
		security:       newSecurityValidator(cfg.WebhookSecret, cfg.RateLimitPerMin),
		cfg:            cfg,
	}
}
