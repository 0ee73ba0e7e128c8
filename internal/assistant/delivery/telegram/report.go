package telegram

import (
	"context"
	"fmt"
	"unicode/utf8"

	pkgLog "reminder-assistant/pkg/log"
)

// maxReportLen keeps operator reports under Telegram's 4096-char message cap.
const maxReportLen = 3500

// AdminReporter forwards failures and scheduler alerts to the operator chat.
// A zero chat ID only logs.
type AdminReporter struct {
	l      pkgLog.Logger
	bot    Bot
	chatID int64
}

func NewAdminReporter(l pkgLog.Logger, bot Bot, adminChatID int64) *AdminReporter {
	return &AdminReporter{l: l, bot: bot, chatID: adminChatID}
}

// Alert sends text to the operator chat, truncated to maxReportLen.
func (r *AdminReporter) Alert(ctx context.Context, text string) error {
	if r == nil {
		return nil
	}
	if r.chatID == 0 {
		r.l.Warnf(ctx, "assistant.delivery.telegram.Alert: no admin chat configured: %s", text)
		return nil
	}
	if _, err := r.bot.Send(ctx, r.chatID, truncate(text, maxReportLen), ""); err != nil {
		return fmt.Errorf("failed to alert admin chat: %w", err)
	}
	return nil
}

// truncate cuts s to at most n runes, marking the cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
