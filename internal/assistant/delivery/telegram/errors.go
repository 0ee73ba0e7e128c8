package telegram

import (
	"context"
	"fmt"

	"reminder-assistant/internal/conversation"
	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder"
	pkgErrors "reminder-assistant/pkg/errors"
)

const apologyMessage = "Sorry, something went wrong on my side. The operators have been notified, please try again later."

// userMessage returns an actionable text for user-facing errors.
func userMessage(err error) string {
	switch pkgErrors.CodeOf(err) {
	case reminder.CodeEmptyInput:
		return "Tell me what to remind you about and when, e.g. \"call mom 25.12 at 18:00\"."
	case reminder.CodeNoDate:
		return "I could not find a date or time in your message. Try \"pay rent 01.11 at 10:00\" or \"tomorrow at 9:00 standup\"."
	case "invalid_timezone":
		return "Your timezone is not recognized."
	case reminder.CodeDuplicate:
		return "You already have a very similar reminder at about that time."
	case reminder.CodePastDate:
		return "That time has already passed. Pick a moment in the future, or shorten the \"before\" offset."
	case reminder.CodeNotFound:
		return "No such reminder. Use /list to see yours."
	case conversation.CodeEmptyQuestion:
		return "Please write a question."
	case conversation.CodeLongQuery:
		return "Your message is too long for the current model. Shorten it or switch with /model."
	case conversation.CodeInWork:
		return "I am still answering your previous message, please wait."
	case conversation.CodeModelNotAllowed:
		return "That model is not available to you. Use /model to see the allowed ones."
	default:
		return err.Error()
	}
}

// replyError answers the chat. Validation and conflict errors are explained
// to the user; anything else gets an apology and goes to operators.
func (h *handler) replyError(ctx context.Context, sc model.Scope, chatID int64, err error) {
	if pkgErrors.IsUserFacing(err) {
		h.l.Infof(ctx, "assistant.delivery.telegram.replyError: chat=%d code=%s: %v", chatID, pkgErrors.CodeOf(err), err)
		h.reply(ctx, chatID, userMessage(err))
		return
	}

	h.l.Errorf(ctx, "assistant.delivery.telegram.replyError: chat=%d user=%d kind=%s: %v",
		chatID, sc.UserID, pkgErrors.KindOf(err), err)
	h.reply(ctx, chatID, apologyMessage)

	report := fmt.Sprintf("⚠️ %s error (%s)\nuser: %d @%s\nchat: %d\n\n%+v",
		pkgErrors.KindOf(err), pkgErrors.CodeOf(err), sc.UserID, sc.Username, chatID, err)
	if alertErr := h.reporter.Alert(ctx, report); alertErr != nil {
		h.l.Warnf(ctx, "assistant.delivery.telegram.replyError: %v", alertErr)
	}
}
