// Package providerfactory creates wire-protocol callers from provider
// configuration. It is the only package that knows which adapter
// implements which wire protocol.
package providerfactory

import (
	"fmt"
	"log/slog"

	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/providers"
	"venty-hq/relay/pkg/providers/genai"
	"venty-hq/relay/pkg/providers/openaichat"
)

// NewCaller creates the caller for one configured provider.
//
// Supported wire protocols:
//   - "openai": chat-completions endpoints (NVIDIA, Cerebras, Mistral, ...)
//   - "genai": generateContent endpoints (Gemini)
//
// Example:
//
//	caller, err := providerfactory.NewCaller(cfg.Providers[0])
//	if err != nil {
//	    return err
//	}
//	defer caller.Close()
func NewCaller(cfg config.ProviderConfig) (providers.Caller, error) {
	callerConfig := providers.CallerConfig{
		Name:                cfg.Name,
		BaseURL:             cfg.BaseURL,
		APIKey:              cfg.APIKey,
		Timeout:             cfg.Timeout,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	slog.Debug("creating provider caller",
		"name", cfg.Name,
		"wire", cfg.Wire,
		"base_url", cfg.BaseURL,
	)

	switch cfg.Wire {
	case config.WireOpenAI:
		return openaichat.NewClient(callerConfig, cfg.SupportsVision), nil

	case config.WireGenAI:
		return genai.NewClient(callerConfig), nil

	default:
		return nil, &providers.ConfigError{
			Provider: cfg.Name,
			Field:    "wire",
			Message:  fmt.Sprintf("unsupported wire protocol: %q (supported: openai, genai)", cfg.Wire),
		}
	}
}
