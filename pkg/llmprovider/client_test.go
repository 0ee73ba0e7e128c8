package llmprovider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reminder-assistant/config"
	pkgErrors "reminder-assistant/pkg/errors"
	"reminder-assistant/pkg/llmprovider"
	"reminder-assistant/pkg/log"
)

func TestClientChat(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key"}}`))
			return
		}

		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		messages := req["messages"].([]interface{})
		last := messages[len(messages)-1].(map[string]interface{})["content"].(string)

		switch last {
		case "cause_500":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream down"))
		case "cause_garbage":
			w.Write([]byte("not json"))
		case "cause_empty":
			w.Write([]byte(`{"model":"deepseek-chat","choices":[]}`))
		default:
			w.Write([]byte(`{"model":"deepseek-chat","choices":[{"index":0,"message":{"role":"assistant","content":"pong"}}],"usage":{"prompt_tokens":7,"completion_tokens":1}}`))
		}
	}))
	defer ts.Close()

	client, err := llmprovider.NewClient(llmprovider.ClientConfig{Name: "deepseek", APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ask := func(text string) (*llmprovider.Response, error) {
		return client.Chat(context.Background(), &llmprovider.Request{
			Model: "deepseek-chat",
			Messages: []llmprovider.Message{
				{Role: llmprovider.RoleSystem, Content: "be brief"},
				{Role: llmprovider.RoleUser, Content: text},
			},
		})
	}

	t.Run("Success", func(t *testing.T) {
		resp, err := ask("ping")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Content != "pong" {
			t.Errorf("expected pong, got %q", resp.Content)
		}
		if resp.Usage == nil || resp.Usage.PromptTokens != 7 || resp.Usage.CompletionTokens != 1 {
			t.Errorf("unexpected usage: %+v", resp.Usage)
		}
	})

	tests := []struct {
		name string
		text string
		kind pkgErrors.Kind
	}{
		{"Bad status", "cause_500", pkgErrors.KindResponse},
		{"Malformed body", "cause_garbage", pkgErrors.KindResponse},
		{"Empty choices", "cause_empty", pkgErrors.KindResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ask(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := pkgErrors.KindOf(err); got != tt.kind {
				t.Errorf("expected kind %s, got %s (%v)", tt.kind, got, err)
			}
		})
	}

	t.Run("Connection refused", func(t *testing.T) {
		dead, _ := llmprovider.NewClient(llmprovider.ClientConfig{Name: "deepseek", APIKey: "k", BaseURL: "http://127.0.0.1:1"})
		_, err := dead.Chat(context.Background(), &llmprovider.Request{Model: "deepseek-chat"})
		if pkgErrors.KindOf(err) != pkgErrors.KindTransport {
			t.Errorf("expected transport kind, got %v", err)
		}
	})
}

func TestNewClient_Presets(t *testing.T) {
	if _, err := llmprovider.NewClient(llmprovider.ClientConfig{Name: "qwen", APIKey: "k"}); err != nil {
		t.Errorf("qwen preset should not need base_url: %v", err)
	}
	if _, err := llmprovider.NewClient(llmprovider.ClientConfig{Name: "custom", APIKey: "k"}); err == nil {
		t.Error("unknown provider without base_url should fail")
	}
	if _, err := llmprovider.NewClient(llmprovider.ClientConfig{Name: "deepseek"}); err == nil {
		t.Error("missing API key should fail")
	}
}

func TestNewManagerFromConfig(t *testing.T) {
	cfg := &config.LLMConfig{
		Providers: []config.ProviderConfig{
			{Name: "deepseek", Enabled: true, APIKey: "k1"},
			{Name: "qwen", Enabled: false, APIKey: "k2"},
		},
		Models: []config.ModelConfig{
			{Name: "deepseek-chat", Provider: "deepseek", MaxRequestTokens: 4000, ContextWindow: 64000},
		},
	}

	manager, err := llmprovider.NewManagerFromConfig(cfg, log.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !manager.HasModel("deepseek-chat") {
		t.Error("expected deepseek-chat to be routed")
	}

	if _, err := llmprovider.NewManagerFromConfig(&config.LLMConfig{}, log.NewNop()); err == nil {
		t.Error("expected error with no providers")
	}
}
