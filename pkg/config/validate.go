package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Wire protocol family identifiers accepted in provider configuration.
const (
	WireOpenAI = "openai"
	WireGenAI  = "genai"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "providers[2].base_url").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All errors are collected and returned
// together so a bad config file can be fixed in one pass.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGateway(&cfg.Gateway)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateRouting(&cfg.Routing, cfg.Providers)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateGateway(cfg *GatewayConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "gateway.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "gateway.read_timeout",
			Message: "read timeout must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "gateway.write_timeout",
			Message: "write timeout must not be negative",
		})
	}

	return errs
}

func validateProviders(providers []ProviderConfig) []FieldError {
	var errs []FieldError

	if len(providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider is required",
		})
	}

	seen := make(map[string]bool, len(providers))
	for i, p := range providers {
		field := func(name string) string {
			return fmt.Sprintf("providers[%d].%s", i, name)
		}

		if p.Name == "" {
			errs = append(errs, FieldError{Field: field("name"), Message: "provider name is required"})
		} else if seen[p.Name] {
			errs = append(errs, FieldError{Field: field("name"), Message: fmt.Sprintf("duplicate provider name %q", p.Name)})
		}
		seen[p.Name] = true

		switch p.Wire {
		case WireOpenAI, WireGenAI:
		case "":
			errs = append(errs, FieldError{Field: field("wire"), Message: "wire protocol is required (openai or genai)"})
		default:
			errs = append(errs, FieldError{Field: field("wire"), Message: fmt.Sprintf("unknown wire protocol %q (supported: openai, genai)", p.Wire)})
		}

		if p.BaseURL == "" {
			errs = append(errs, FieldError{Field: field("base_url"), Message: "base URL is required"})
		} else if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{Field: field("base_url"), Message: fmt.Sprintf("invalid base URL %q", p.BaseURL)})
		}

		if p.APIKey == "" {
			errs = append(errs, FieldError{Field: field("api_key"), Message: "API key is required"})
		}

		// An empty model list is a fatal configuration error: the model
		// rotator has nothing to rotate over.
		if len(p.Models) == 0 {
			errs = append(errs, FieldError{Field: field("models"), Message: "at least one model is required"})
		}

		if p.SupportsVision && len(p.VisionModels) == 0 && !hasMultimodalModel(p.Models) {
			errs = append(errs, FieldError{
				Field:   field("vision_models"),
				Message: "provider declares vision support but has no vision models and no multimodal text model",
			})
		}

		if p.Priority < 0 {
			errs = append(errs, FieldError{Field: field("priority"), Message: "priority must not be negative"})
		}
	}

	return errs
}

// multimodalMarkers identify text-list models that can also serve vision
// requests via generic multimodal encoding.
var multimodalMarkers = []string{"vision", "gpt-4", "gemini", "pixtral", "llama-3.2"}

func hasMultimodalModel(models []string) bool {
	for _, m := range models {
		for _, marker := range multimodalMarkers {
			if strings.Contains(m, marker) {
				return true
			}
		}
	}
	return false
}

func validateRouting(cfg *RoutingConfig, providers []ProviderConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxModelAttempts < 1 {
		errs = append(errs, FieldError{Field: "routing.max_model_attempts", Message: "must be at least 1"})
	}
	if cfg.BlacklistThreshold < 1 {
		errs = append(errs, FieldError{Field: "routing.blacklist_threshold", Message: "must be at least 1"})
	}
	if cfg.BlacklistWindow <= 0 {
		errs = append(errs, FieldError{Field: "routing.blacklist_window", Message: "must be positive"})
	}

	if cfg.VisionDescriber != "" {
		found := false
		for _, p := range providers {
			if p.Name == cfg.VisionDescriber {
				found = true
				if !p.SupportsVision {
					errs = append(errs, FieldError{
						Field:   "routing.vision_describer",
						Message: fmt.Sprintf("provider %q does not support vision", p.Name),
					})
				}
				break
			}
		}
		if !found {
			errs = append(errs, FieldError{
				Field:   "routing.vision_describer",
				Message: fmt.Sprintf("provider %q not found in catalog", cfg.VisionDescriber),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown log level %q (supported: debug, info, warn, error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown log format %q (supported: json, text)", cfg.Logging.Format),
		})
	}

	return errs
}
