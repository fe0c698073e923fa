package config

import "time"

// Default values for configuration fields.
const (
	// Gateway defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// DefaultApologyMessage is returned on full provider exhaustion when
	// graceful degradation is enabled.
	DefaultApologyMessage = "Sorry, all AI services are busy right now. Please try again in a moment."

	// Provider defaults
	DefaultProviderTimeout     = 120 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	// Routing defaults
	DefaultMaxModelAttempts             = 2
	DefaultBlacklistThreshold           = 3
	DefaultBlacklistWindow              = 5 * time.Minute
	DefaultSimilarProviderLimit         = 2
	DefaultAffinityTTL                  = 12 * time.Hour
	DefaultAffinityMaxEntries           = 10000
	DefaultImageContextMaxConversations = 1000
	DefaultMaintenanceSchedule          = "@every 5m"

	// DefaultSystemPrompt is the persona injected as the first message of
	// every outbound request.
	DefaultSystemPrompt = "You are VenTY AI, a fast and friendly all-round assistant. " +
		"You can read images, translate, and answer anything. When the user sends an " +
		"image, describe it in detail. Keep a casual but professional tone."

	// Storage defaults
	DefaultStoragePath = "relay.db"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsNamespace = "venty"
)

// DefaultLatencyBuckets are histogram buckets for provider latency in
// seconds, spanning fast cache-warm responses to slow large-model calls.
var DefaultLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values and is idempotent.
func ApplyDefaults(cfg *Config) {
	// Gateway defaults
	if cfg.Gateway.ListenAddress == "" {
		cfg.Gateway.ListenAddress = DefaultListenAddress
	}
	if cfg.Gateway.ReadTimeout == 0 {
		cfg.Gateway.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Gateway.IdleTimeout == 0 {
		cfg.Gateway.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Gateway.ShutdownTimeout == 0 {
		cfg.Gateway.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Gateway.MaxHeaderBytes == 0 {
		cfg.Gateway.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Gateway.DegradeGracefully == nil {
		degrade := true
		cfg.Gateway.DegradeGracefully = &degrade
	}
	if cfg.Gateway.ApologyMessage == "" {
		cfg.Gateway.ApologyMessage = DefaultApologyMessage
	}

	// Provider defaults
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.Family == "" {
			p.Family = p.Name
		}
		if p.Timeout == 0 {
			p.Timeout = DefaultProviderTimeout
		}
		if p.MaxIdleConns == 0 {
			p.MaxIdleConns = DefaultMaxIdleConns
		}
		if p.MaxIdleConnsPerHost == 0 {
			p.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
		}
		if p.IdleConnTimeout == 0 {
			p.IdleConnTimeout = DefaultIdleConnTimeout
		}
	}

	// Routing defaults
	if cfg.Routing.MaxModelAttempts == 0 {
		cfg.Routing.MaxModelAttempts = DefaultMaxModelAttempts
	}
	if cfg.Routing.BlacklistThreshold == 0 {
		cfg.Routing.BlacklistThreshold = DefaultBlacklistThreshold
	}
	if cfg.Routing.BlacklistWindow == 0 {
		cfg.Routing.BlacklistWindow = DefaultBlacklistWindow
	}
	if cfg.Routing.SimilarProviderLimit == 0 {
		cfg.Routing.SimilarProviderLimit = DefaultSimilarProviderLimit
	}
	if cfg.Routing.AffinityTTL == 0 {
		cfg.Routing.AffinityTTL = DefaultAffinityTTL
	}
	if cfg.Routing.AffinityMaxEntries == 0 {
		cfg.Routing.AffinityMaxEntries = DefaultAffinityMaxEntries
	}
	if cfg.Routing.ImageContextMaxConversations == 0 {
		cfg.Routing.ImageContextMaxConversations = DefaultImageContextMaxConversations
	}
	if cfg.Routing.MaintenanceSchedule == "" {
		cfg.Routing.MaintenanceSchedule = DefaultMaintenanceSchedule
	}
	if cfg.Routing.SystemPrompt == "" {
		cfg.Routing.SystemPrompt = DefaultSystemPrompt
	}

	// Storage defaults
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := true
		cfg.Telemetry.Metrics.Enabled = &enabled
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.LatencyBuckets) == 0 {
		cfg.Telemetry.Metrics.LatencyBuckets = append([]float64(nil), DefaultLatencyBuckets...)
	}
}
