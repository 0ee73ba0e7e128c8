package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgErrors "reminder-assistant/pkg/errors"
	"reminder-assistant/pkg/log"
)

// Manager routes each request to the provider serving its model and bounds
// the call with a hard timeout. Failed calls are not retried.
type Manager struct {
	providers map[string]Provider // provider name -> provider
	routes    map[string]string   // model name -> provider name
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	Timeout time.Duration
}

// NewManager creates a new Provider Manager. routes maps model names to
// provider names.
func NewManager(providers []Provider, routes map[string]string, config *Config, logger log.Logger) *Manager {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if config == nil {
		config = &Config{}
	}
	return &Manager{
		providers: byName,
		routes:    routes,
		config:    config,
		logger:    logger,
	}
}

// Chat resolves the provider for req.Model and performs a single call.
func (m *Manager) Chat(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	provider, ok := m.providers[m.routes[req.Model]]
	if !ok {
		return nil, pkgErrors.NewUnhandled("llm_unknown_model", req.Model, ErrUnknownModel)
	}

	if m.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := provider.Chat(ctx, req)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ErrProviderTimeout) {
			err = pkgErrors.NewTransport("llm_timeout", "provider "+provider.Name(),
				fmt.Errorf("%w: %v", ErrProviderTimeout, ctx.Err()))
		}
		m.logFailure(ctx, provider, req.Model, err)
		return nil, &ProviderError{Provider: provider.Name(), Err: err}
	}

	m.logSuccess(ctx, provider, resp, time.Since(start))
	return resp, nil
}

// HasModel reports whether some provider serves model.
func (m *Manager) HasModel(model string) bool {
	_, ok := m.providers[m.routes[model]]
	return ok
}

// IsTimeout reports whether err came from the hard call timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrProviderTimeout)
}

// logSuccess logs successful LLM generation with metrics
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response, took time.Duration) {
	promptTokens, completionTokens := 0, 0
	if resp.Usage != nil {
		promptTokens, completionTokens = resp.Usage.PromptTokens, resp.Usage.CompletionTokens
	}
	m.logger.Infof(ctx, "llm call ok provider=%s model=%s prompt_tokens=%d completion_tokens=%d took=%s",
		provider.Name(), resp.ModelName, promptTokens, completionTokens, took)
}

// logFailure logs failed LLM generation attempts
func (m *Manager) logFailure(ctx context.Context, provider Provider, model string, err error) {
	m.logger.Warnf(ctx, "llm call failed provider=%s model=%s kind=%s: %v",
		provider.Name(), model, pkgErrors.KindOf(err), err)
}
