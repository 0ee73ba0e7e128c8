package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// Chat sends a chat completion request and returns the first choice
	Chat(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "deepseek", "qwen")
	Name() string
}

// Role values for Message.Role
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request represents a normalized chat completion request
type Request struct {
	Model            string
	Messages         []Message
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Message represents a conversation message
type Message struct {
	Role    string
	Content string
}

// Response represents a normalized chat completion response
type Response struct {
	Content      string
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}
