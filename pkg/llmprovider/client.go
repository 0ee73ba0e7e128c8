package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	pkgErrors "reminder-assistant/pkg/errors"
)

// ClientConfig holds OpenAI-compatible client configuration
type ClientConfig struct {
	Name       string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to any OpenAI-compatible /chat/completions endpoint.
type Client struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new OpenAI-compatible client.
// The HTTP client carries no timeout of its own; callers bound calls via ctx.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("provider name is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL(cfg.Name)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider %s: base_url is required", cfg.Name)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Client{
		name:       cfg.Name,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}, nil
}

func (c *Client) Name() string {
	return c.name
}

// OpenAI-compatible wire types
type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p,omitempty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage"`
}

type chatChoice struct {
	Index   int         `json:"index"`
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat sends a request to the provider.
// Connection failures and deadline expiry are transport errors; bad status,
// malformed bodies and empty choices are response errors.
func (c *Client) Chat(ctx context.Context, req *Request) (*Response, error) {
	payload := chatRequest{
		Model:            req.Model,
		Messages:         make([]chatMessage, 0, len(req.Messages)),
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
	}
	for _, m := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgErrors.NewUnhandled("llm_marshal", "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, pkgErrors.NewUnhandled("llm_request", "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, pkgErrors.NewTransport("llm_timeout", "provider "+c.name,
				fmt.Errorf("%w: %v", ErrProviderTimeout, ctx.Err()))
		}
		return nil, pkgErrors.NewTransport("llm_connection", "provider "+c.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgErrors.NewTransport("llm_read", "provider "+c.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.Error.Message == "" {
			return nil, pkgErrors.NewResponse("llm_status", "provider "+c.name,
				fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody)))
		}
		return nil, pkgErrors.NewResponse("llm_status", "provider "+c.name,
			fmt.Errorf("API error %d: %s", resp.StatusCode, errResp.Error.Message))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, pkgErrors.NewResponse("llm_body", "provider "+c.name, fmt.Errorf("failed to parse response: %w", err))
	}
	if len(result.Choices) == 0 {
		return nil, pkgErrors.NewResponse("llm_empty", "provider "+c.name, ErrEmptyChoices)
	}

	out := &Response{
		Content:      result.Choices[0].Message.Content,
		ProviderName: c.name,
		ModelName:    result.Model,
	}
	if out.ModelName == "" {
		out.ModelName = req.Model
	}
	if result.Usage != nil {
		out.Usage = &Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
		}
	}
	return out, nil
}
