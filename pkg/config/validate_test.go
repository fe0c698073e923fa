package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{
		Providers: []ProviderConfig{
			{
				Name:    "nvidia-1",
				Wire:    WireOpenAI,
				BaseURL: "https://integrate.api.nvidia.com/v1",
				APIKey:  "k",
				Models:  []string{"meta/llama-3.1-70b-instruct"},
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "no providers",
			mutate:    func(c *Config) { c.Providers = nil },
			wantField: "providers",
		},
		{
			name:      "missing provider name",
			mutate:    func(c *Config) { c.Providers[0].Name = "" },
			wantField: "providers[0].name",
		},
		{
			name: "duplicate provider name",
			mutate: func(c *Config) {
				c.Providers = append(c.Providers, c.Providers[0])
			},
			wantField: "providers[1].name",
		},
		{
			name:      "unknown wire protocol",
			mutate:    func(c *Config) { c.Providers[0].Wire = "grpc" },
			wantField: "providers[0].wire",
		},
		{
			name:      "missing wire protocol",
			mutate:    func(c *Config) { c.Providers[0].Wire = "" },
			wantField: "providers[0].wire",
		},
		{
			name:      "invalid base url",
			mutate:    func(c *Config) { c.Providers[0].BaseURL = "not a url" },
			wantField: "providers[0].base_url",
		},
		{
			name:      "missing api key",
			mutate:    func(c *Config) { c.Providers[0].APIKey = "" },
			wantField: "providers[0].api_key",
		},
		{
			name:      "empty model list",
			mutate:    func(c *Config) { c.Providers[0].Models = nil },
			wantField: "providers[0].models",
		},
		{
			name: "vision without vision-capable models",
			mutate: func(c *Config) {
				c.Providers[0].SupportsVision = true
				c.Providers[0].Models = []string{"qwen-72b"}
			},
			wantField: "providers[0].vision_models",
		},
		{
			name:      "missing listen address",
			mutate:    func(c *Config) { c.Gateway.ListenAddress = "" },
			wantField: "gateway.listen_address",
		},
		{
			name:      "zero max model attempts",
			mutate:    func(c *Config) { c.Routing.MaxModelAttempts = 0 },
			wantField: "routing.max_model_attempts",
		},
		{
			name:      "unknown describer provider",
			mutate:    func(c *Config) { c.Routing.VisionDescriber = "phantom" },
			wantField: "routing.vision_describer",
		},
		{
			name: "describer without vision support",
			mutate: func(c *Config) {
				c.Routing.VisionDescriber = "nvidia-1"
			},
			wantField: "routing.vision_describer",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "unknown log format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() accepted invalid config")
			}

			vErr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want ValidationError", err)
			}
			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.wantField, vErr.Errors)
			}
		})
	}
}

func TestValidateVisionWithMultimodalTextModels(t *testing.T) {
	cfg := validConfig()
	cfg.Providers[0].SupportsVision = true
	cfg.Providers[0].Models = []string{"meta/llama-3.2-90b-vision-instruct"}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, multimodal text model should satisfy vision support", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Providers[0].Name = ""
	cfg.Providers[0].APIKey = ""
	cfg.Gateway.ListenAddress = ""

	err := Validate(cfg)
	vErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(vErr.Errors) < 3 {
		t.Errorf("collected %d errors, want all 3: %v", len(vErr.Errors), vErr.Errors)
	}
	if !strings.Contains(vErr.Error(), "3 errors") && len(vErr.Errors) == 3 {
		t.Errorf("message does not summarize count: %q", vErr.Error())
	}
}
