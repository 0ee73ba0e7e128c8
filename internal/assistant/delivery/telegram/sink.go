package telegram

import (
	"context"

	"reminder-assistant/internal/conversation"
	pkgTelegram "reminder-assistant/pkg/telegram"
)

// chatSink replies into one Telegram chat.
type chatSink struct {
	bot    Bot
	chatID int64
}

var _ conversation.ReplySink = (*chatSink)(nil)

func newChatSink(bot Bot, chatID int64) *chatSink {
	return &chatSink{bot: bot, chatID: chatID}
}

func (s *chatSink) SendTyping(ctx context.Context) error {
	return s.bot.SendChatAction(ctx, s.chatID, pkgTelegram.ActionTyping)
}

func (s *chatSink) SendReply(ctx context.Context, text string) error {
	_, err := s.bot.Send(ctx, s.chatID, text, "")
	return err
}
