package llmprovider

import (
	"fmt"

	"reminder-assistant/config"
	"reminder-assistant/pkg/log"
)

// InitializeProviders creates one client per enabled provider in cfg.
func InitializeProviders(cfg *config.LLMConfig) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	var providers []Provider
	for _, p := range cfg.Providers {
		if !p.Enabled {
			continue
		}
		client, err := NewClient(ClientConfig{
			Name:    p.Name,
			APIKey:  p.APIKey,
			BaseURL: p.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize provider %s: %w", p.Name, err)
		}
		providers = append(providers, client)
	}

	if len(providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	return providers, nil
}

// Routes maps every configured model to its provider.
func Routes(cfg *config.LLMConfig) map[string]string {
	routes := make(map[string]string, len(cfg.Models))
	for _, m := range cfg.Models {
		routes[m.Name] = m.Provider
	}
	return routes
}

// NewManagerFromConfig wires providers, routes and the hard timeout.
func NewManagerFromConfig(cfg *config.LLMConfig, logger log.Logger) (*Manager, error) {
	providers, err := InitializeProviders(cfg)
	if err != nil {
		return nil, err
	}
	return NewManager(providers, Routes(cfg), &Config{Timeout: cfg.Timeout}, logger), nil
}
