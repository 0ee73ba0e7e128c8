// Package intent is the client for the external intent classifier service.
package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgErrors "reminder-assistant/pkg/errors"
)

// Class is the classifier's verdict.
type Class string

const (
	ClassTask Class = "task"
	ClassChat Class = "chat"
)

const defaultTimeout = 5 * time.Second

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	PredictedClass string `json:"predicted_class"`
}

// Client posts text to the classifier endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a classifier client for url. A zero timeout uses 5s.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Classify returns the predicted class of text.
func (c *Client) Classify(ctx context.Context, text string) (Class, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgErrors.NewTransport("intent_connection", "intent classifier unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", pkgErrors.NewResponse("intent_status", fmt.Sprintf("status %d: %s", resp.StatusCode, raw), nil)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", pkgErrors.NewResponse("intent_decode", "invalid intent response", err)
	}

	switch class := Class(strings.ToLower(strings.TrimSpace(out.PredictedClass))); class {
	case ClassTask, ClassChat:
		return class, nil
	default:
		return "", pkgErrors.NewResponse("intent_unknown_class", out.PredictedClass, nil)
	}
}
