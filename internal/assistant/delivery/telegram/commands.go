package telegram

import (
	"context"
	"fmt"
	"strings"

	"reminder-assistant/internal/model"
)

const (
	startMessage = "👋 Hi! I keep your reminders and answer questions.\n\n" +
		"Write something like _\"dentist 14.11 at 16:30, 2 hours before\"_ and I will remind you.\n" +
		"Anything else is a question for the assistant. See /help."

	helpMessage = "*Reminders*\n" +
		"`buy flowers 08.03 at 9:00`\n" +
		"`standup at 10:00, every day`\n" +
		"`birthday of Anna 05.09`\n" +
		"/list shows your reminders, /delete <id> removes one.\n\n" +
		"*Assistant*\n" +
		"Just ask. /reset starts a new conversation, /model shows or switches the model."
)

// handleCommand runs a slash command. "/cmd@botname" is accepted in groups.
func (h *handler) handleCommand(ctx context.Context, sc model.Scope, chatID int64, text string) {
	fields := strings.Fields(text)
	cmd := fields[0]
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	args := fields[1:]

	switch cmd {
	case "/start":
		h.replyWithMode(ctx, chatID, startMessage, "Markdown")
	case "/help":
		h.replyWithMode(ctx, chatID, helpMessage, "Markdown")
	case "/list":
		h.listReminders(ctx, sc, chatID)
	case "/delete":
		h.deleteReminder(ctx, sc, chatID, args)
	case "/reset":
		if err := h.conversationUC.ResetSession(ctx, sc); err != nil {
			h.replyError(ctx, sc, chatID, err)
			return
		}
		h.reply(ctx, chatID, "🧹 Started a new conversation.")
	case "/model":
		h.model(ctx, sc, chatID, args)
	default:
		h.reply(ctx, chatID, "Unknown command. See /help.")
	}
}

func (h *handler) listReminders(ctx context.Context, sc model.Scope, chatID int64) {
	items, err := h.reminderUC.List(ctx, sc)
	if err != nil {
		h.replyError(ctx, sc, chatID, err)
		return
	}
	h.reply(ctx, chatID, presentList(items))
}

func (h *handler) deleteReminder(ctx context.Context, sc model.Scope, chatID int64, args []string) {
	if len(args) != 1 {
		h.reply(ctx, chatID, "Usage: /delete <id>. Use /list to see ids.")
		return
	}
	if err := h.reminderUC.Delete(ctx, sc, args[0]); err != nil {
		h.replyError(ctx, sc, chatID, err)
		return
	}
	h.reply(ctx, chatID, "🗑 Reminder deleted.")
}

func (h *handler) model(ctx context.Context, sc model.Scope, chatID int64, args []string) {
	var (
		sel model.ModelSelection
		err error
	)
	if len(args) == 0 {
		sel, err = h.conversationUC.CurrentModel(ctx, sc)
	} else {
		sel, err = h.conversationUC.SelectModel(ctx, sc, args[0])
	}
	if err != nil {
		h.replyError(ctx, sc, chatID, err)
		return
	}

	text := fmt.Sprintf("Current model: %s", sel.Model)
	if len(sel.AllowedModels) > 0 {
		text += fmt.Sprintf("\nAvailable: %s\nSwitch with /model <name>.", strings.Join(sel.AllowedModels, ", "))
	}
	h.reply(ctx, chatID, text)
}
