package providerfactory

import (
	"errors"
	"testing"

	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/providers"
)

func TestNewCaller(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ProviderConfig
		wantErr bool
	}{
		{
			name: "openai wire",
			cfg: config.ProviderConfig{
				Name:    "nvidia-1",
				Wire:    config.WireOpenAI,
				BaseURL: "https://integrate.api.nvidia.com/v1",
				APIKey:  "test-key",
			},
		},
		{
			name: "genai wire",
			cfg: config.ProviderConfig{
				Name:    "gemini",
				Wire:    config.WireGenAI,
				BaseURL: "https://generativelanguage.googleapis.com",
				APIKey:  "test-key",
			},
		},
		{
			name: "unsupported wire",
			cfg: config.ProviderConfig{
				Name:    "mystery",
				Wire:    "grpc",
				BaseURL: "https://example.com",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := NewCaller(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewCaller() did not fail")
				}
				var cfgErr *providers.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("error type = %T, want *providers.ConfigError", err)
				}
				if cfgErr.Field != "wire" {
					t.Errorf("field = %q, want wire", cfgErr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCaller() error = %v", err)
			}
			defer caller.Close()

			if caller.Name() != tt.cfg.Name {
				t.Errorf("Name() = %q, want %q", caller.Name(), tt.cfg.Name)
			}
		})
	}
}
