package config

import "time"

// Config is the root configuration structure for the relay gateway.
type Config struct {
	// Gateway contains HTTP server configuration including listen address
	// and timeouts.
	Gateway GatewayConfig `yaml:"gateway"`

	// Providers is the upstream provider catalog. Order in the file is not
	// significant; candidate ordering is computed per request from the
	// priority and free/paid fields.
	Providers []ProviderConfig `yaml:"providers"`

	// Routing contains configuration for the completion router: attempt
	// bounds, failure blacklisting, and conversation affinity.
	Routing RoutingConfig `yaml:"routing"`

	// Storage contains configuration for the optional transcript store.
	Storage StorageConfig `yaml:"storage"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GatewayConfig contains configuration for the HTTP gateway server.
type GatewayConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Streaming responses disable this per-connection.
	// Default: 0 (no timeout; streams are long-lived)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size. Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// DegradeGracefully controls the user-visible behavior when every
	// provider fails: true returns HTTP 200 with a static apology message,
	// false returns HTTP 503 with a structured error body. Both are valid
	// policies; a deployment must pick one.
	// Default: true
	DegradeGracefully *bool `yaml:"degrade_gracefully"`

	// ApologyMessage is the static message returned on full provider
	// exhaustion when DegradeGracefully is enabled.
	ApologyMessage string `yaml:"apology_message"`
}

// ProviderConfig describes one upstream provider endpoint.
// Provider records are immutable after load; runtime state (failures,
// rotation indices, affinity) lives in the router's side tables.
type ProviderConfig struct {
	// Name is the unique provider identifier (e.g., "nvidia-1", "gemini").
	Name string `yaml:"name"`

	// Family groups providers by vendor for the similar-provider search
	// (e.g., "nvidia", "gemini", "cerebras", "mistral"). Defaults to Name.
	Family string `yaml:"family"`

	// Wire selects the wire protocol adapter: "openai" for
	// chat-completions style APIs, "genai" for contents/parts style
	// generative APIs.
	Wire string `yaml:"wire"`

	// BaseURL is the API endpoint base URL.
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication credential. May be given indirectly as
	// ${ENV_VAR} to read from the environment at load time.
	APIKey string `yaml:"api_key"`

	// Models is the ordered list of text model identifiers.
	Models []string `yaml:"models"`

	// VisionModels is the ordered list of vision-capable model
	// identifiers. May be empty even when SupportsVision is true, in which
	// case vision requests fall back to multimodal-looking entries of
	// Models.
	VisionModels []string `yaml:"vision_models"`

	// SupportsVision indicates the provider accepts image content.
	SupportsVision bool `yaml:"supports_vision"`

	// Free marks no-cost providers. Free providers are always tried before
	// paid ones.
	Free bool `yaml:"free"`

	// Priority orders providers within a tier; lower is tried first.
	Priority int `yaml:"priority"`

	// Timeout is the per-call HTTP timeout. Default: 120s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the connection pool size. Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the per-host idle connection limit.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle connections are kept. Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// RoutingConfig contains configuration for the completion router.
type RoutingConfig struct {
	// MaxModelAttempts caps how many model rotations are tried per
	// provider before moving to the next candidate. The effective bound is
	// min(MaxModelAttempts, applicable model count). Default: 2
	MaxModelAttempts int `yaml:"max_model_attempts"`

	// BlacklistThreshold is the failure count at which a provider becomes
	// temporarily blacklisted. Default: 3
	BlacklistThreshold int `yaml:"blacklist_threshold"`

	// BlacklistWindow is how long a provider stays blacklisted after its
	// last failure. Once the window elapses the failure record is deleted
	// entirely. Default: 5m
	BlacklistWindow time.Duration `yaml:"blacklist_window"`

	// SimilarProviderLimit caps the similar-family search performed when a
	// conversation's affinity provider fails. Default: 2
	SimilarProviderLimit int `yaml:"similar_provider_limit"`

	// AffinityTTL is how long a conversation's provider affinity is
	// remembered without being refreshed. Default: 12h
	AffinityTTL time.Duration `yaml:"affinity_ttl"`

	// AffinityMaxEntries bounds the affinity cache; least recently used
	// conversations are evicted beyond it. Default: 10000
	AffinityMaxEntries int `yaml:"affinity_max_entries"`

	// ImageContextMaxConversations bounds the image-context store.
	// Default: 1000
	ImageContextMaxConversations int `yaml:"image_context_max_conversations"`

	// VisionDescriber names the provider used for best-effort image
	// summarization. Empty disables summarization. The named provider must
	// exist and support vision.
	VisionDescriber string `yaml:"vision_describer"`

	// MaintenanceSchedule is a cron expression for the background sweep of
	// stale failure records and expired affinity/image-context entries.
	// Default: "@every 5m"
	MaintenanceSchedule string `yaml:"maintenance_schedule"`

	// SystemPrompt is the persona message injected as the first message of
	// every outbound request, replacing any caller-supplied system
	// message.
	SystemPrompt string `yaml:"system_prompt"`
}

// StorageConfig contains configuration for the transcript store.
// The router itself has no persistence dependency; the gateway layer
// records transcripts when enabled and functions fully without it.
type StorageConfig struct {
	// Enabled turns transcript persistence on. Default: false (guest mode)
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path. Default: "relay.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text". Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records. Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled exposes /metrics on the gateway. Default: true
	Enabled *bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "venty"
	Namespace string `yaml:"namespace"`

	// LatencyBuckets are the histogram buckets for provider latency, in
	// seconds.
	LatencyBuckets []float64 `yaml:"latency_buckets"`
}
