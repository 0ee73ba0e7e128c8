package telegram

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"reminder-assistant/internal/conversation"
	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder"
	"reminder-assistant/internal/router"
	pkgResponse "reminder-assistant/pkg/response"
	pkgTelegram "reminder-assistant/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It acks immediately and processes the message in a background goroutine;
// an LLM answer can take far longer than Telegram waits for the webhook.
// @Summary Telegram webhook
// @Description Receives Telegram updates. Text messages become reminders or chat questions.
// @Tags Telegram
// @Accept json
// @Produce json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Webhook secret"
// @Success 200 {object} pkgResponse.Resp
// @Failure 400 {object} pkgResponse.Resp
// @Failure 401 {object} pkgResponse.Resp
// @Router /webhook/telegram [post]
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateSecret(c.GetHeader(SecretHeader)); err != nil {
		h.l.Warnf(ctx, "assistant.delivery.telegram.HandleWebhook: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "assistant.delivery.telegram.HandleWebhook: failed to parse update: %v", err)
		pkgResponse.BadRequest(c, err)
		return
	}

	// Ignore non-message updates (edits, channel posts, etc.)
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message
	if err := h.security.CheckRateLimit(msg.Chat.ID); err != nil {
		// 200 so Telegram does not redeliver the update.
		h.l.Warnf(ctx, "assistant.delivery.telegram.HandleWebhook: %v", err)
		pkgResponse.OK(c, map[string]string{"status": "throttled"})
		return
	}

	go func() {
		bgCtx := context.WithoutCancel(ctx)
		h.processMessage(bgCtx, msg)
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message. Failures are answered
// in the chat, never returned.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	sc := h.scopeFor(msg)

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, sc, msg.Chat.ID, text)
		return
	}

	route := h.router.Classify(ctx, text)
	h.l.Debugf(ctx, "assistant.delivery.telegram.processMessage: chat=%d intent=%s fallback=%v",
		msg.Chat.ID, route.Intent, route.Fallback)

	switch route.Intent {
	case router.IntentTask:
		h.createReminder(ctx, sc, msg.Chat.ID, text)
	default:
		h.ask(ctx, sc, msg.Chat.ID, text)
	}
}

func (h *handler) createReminder(ctx context.Context, sc model.Scope, chatID int64, text string) {
	out, err := h.reminderUC.Create(ctx, sc, reminder.CreateInput{Text: text})
	if err != nil {
		h.replyError(ctx, sc, chatID, err)
		return
	}
	h.reply(ctx, chatID, presentCreated(out.Reminder))
}

func (h *handler) ask(ctx context.Context, sc model.Scope, chatID int64, text string) {
	sink := newChatSink(h.bot, chatID)
	if _, err := h.conversationUC.Ask(ctx, sc, conversation.AskInput{Text: text}, sink); err != nil {
		h.replyError(ctx, sc, chatID, err)
	}
}

// scopeFor builds the request scope. In a group the private chat with the
// sender has the sender's user ID.
func (h *handler) scopeFor(msg *pkgTelegram.Message) model.Scope {
	sc := model.Scope{
		ChatID:   msg.Chat.ID,
		Timezone: h.cfg.DefaultTimezone,
	}
	if msg.From == nil || msg.From.IsBot {
		sc.Guest = true
		return sc
	}

	sc.UserID = msg.From.ID
	sc.Username = msg.From.Username
	if msg.Chat.IsGroup() {
		sc.ChatID = msg.From.ID
		sc.GroupChatID = msg.Chat.ID
	}
	return sc
}

func (h *handler) reply(ctx context.Context, chatID int64, text string) {
	h.replyWithMode(ctx, chatID, text, "")
}

func (h *handler) replyWithMode(ctx context.Context, chatID int64, text, parseMode string) {
	if _, err := h.bot.Send(ctx, chatID, text, parseMode); err != nil {
		h.l.Warnf(ctx, "assistant.delivery.telegram.reply: chat=%d: %v", chatID, err)
	}
}
