package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	pkgErrors "reminder-assistant/pkg/errors"
)

const defaultHTTPTimeout = 15 * time.Second

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetWebhook registers the webhook URL with Telegram. A non-empty secret is
// echoed back by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	payload := SetWebhookRequest{URL: webhookURL, SecretToken: secret}
	_, err := b.call(ctx, "setWebhook", payload)
	return err
}

// Send sends a message and returns its message ID. parseMode may be empty.
func (b *Bot) Send(ctx context.Context, chatID int64, text, parseMode string) (int64, error) {
	raw, err := b.call(ctx, "sendMessage", SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	})
	if err != nil {
		return 0, err
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return 0, pkgErrors.NewResponse("telegram_decode", "invalid sendMessage result", err)
	}
	return msg.MessageID, nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := b.Send(ctx, chatID, text, "")
	return err
}

// SendChatAction shows a transient status such as ActionTyping.
func (b *Bot) SendChatAction(ctx context.Context, chatID int64, action string) error {
	_, err := b.call(ctx, "sendChatAction", ChatActionRequest{ChatID: chatID, Action: action})
	return err
}

// call posts payload to method and returns the raw result.
func (b *Bot) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", b.apiURL, method), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, pkgErrors.NewTransport("telegram_connection", "telegram "+method+" failed", err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgErrors.NewResponse("telegram_decode",
			fmt.Sprintf("telegram %s: status %d", method, resp.StatusCode), err)
	}
	if !apiResp.OK {
		return nil, pkgErrors.NewResponse("telegram_api",
			fmt.Sprintf("telegram %s failed (%d): %s", method, apiResp.ErrorCode, apiResp.Description), nil)
	}
	return apiResp.Result, nil
}
