package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It expands ${ENV_VAR} credential references, applies default values, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	expandCredentials(&cfg)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// VENTY_SECTION_FIELD (e.g., VENTY_GATEWAY_LISTEN_ADDRESS) and always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// expandCredentials resolves ${ENV_VAR} references in provider API keys so
// secrets can be kept out of the config file.
func expandCredentials(cfg *Config) {
	for i := range cfg.Providers {
		key := cfg.Providers[i].APIKey
		if strings.HasPrefix(key, "${") && strings.HasSuffix(key, "}") {
			cfg.Providers[i].APIKey = os.Getenv(strings.TrimSuffix(strings.TrimPrefix(key, "${"), "}"))
		}
	}
}

// applyEnvOverrides applies VENTY_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("VENTY_GATEWAY_LISTEN_ADDRESS"); val != "" {
		cfg.Gateway.ListenAddress = val
	}
	if val := os.Getenv("VENTY_GATEWAY_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Gateway.ReadTimeout = d
		}
	}
	if val := os.Getenv("VENTY_GATEWAY_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Gateway.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("VENTY_GATEWAY_DEGRADE_GRACEFULLY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Gateway.DegradeGracefully = &b
		}
	}

	if val := os.Getenv("VENTY_ROUTING_BLACKLIST_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Routing.BlacklistWindow = d
		}
	}
	if val := os.Getenv("VENTY_ROUTING_BLACKLIST_THRESHOLD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Routing.BlacklistThreshold = i
		}
	}
	if val := os.Getenv("VENTY_ROUTING_SYSTEM_PROMPT"); val != "" {
		cfg.Routing.SystemPrompt = val
	}

	if val := os.Getenv("VENTY_STORAGE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Storage.Enabled = b
		}
	}
	if val := os.Getenv("VENTY_STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}

	if val := os.Getenv("VENTY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("VENTY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
}
