package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/processing"
	"venty-hq/relay/pkg/providerfactory"
	"venty-hq/relay/pkg/proxy/handlers"
	"venty-hq/relay/pkg/routing"
	"venty-hq/relay/pkg/server"
	"venty-hq/relay/pkg/storage"
	"venty-hq/relay/pkg/telemetry/logging"
	"venty-hq/relay/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the VenTY Relay gateway",
	Long: `Start the gateway with the specified configuration.

The gateway listens on the configured address and routes chat requests
across the configured providers with affinity, blacklisting, and
failover.

Examples:
  # Start with default config
  venty run

  # Start with custom config
  venty run --config /etc/venty/config.yaml

  # Override listen address
  venty run --listen 0.0.0.0:8080

  # Reload the provider catalog when the config file changes
  venty run --watch

  # Validate config without starting
  venty run --dry-run`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the gateway")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload the provider catalog on config file changes")
}

// routingStack bundles the pieces rebuilt together on a config reload.
type routingStack struct {
	registry *routing.Registry
	router   *routing.Router
	janitor  *routing.Janitor
}

// swappableRouter delegates to the current routing stack, letting a
// config reload replace it atomically under live traffic.
type swappableRouter struct {
	current atomic.Pointer[routingStack]
}

var _ handlers.CompletionRouter = (*swappableRouter)(nil)

func (s *swappableRouter) Complete(ctx context.Context, req *routing.Request) (*routing.Result, error) {
	return s.current.Load().router.Complete(ctx, req)
}

func (s *swappableRouter) Stream(ctx context.Context, req *routing.Request) (*routing.StreamResult, error) {
	return s.current.Load().router.Stream(ctx, req)
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Gateway.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging, nil); err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("Configuration valid")
		return nil
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics)
	metricsEnabled := cfg.Telemetry.Metrics.Enabled == nil || *cfg.Telemetry.Metrics.Enabled

	// Image context and its processor survive catalog reloads so cached
	// summaries are not lost.
	imageContexts := processing.NewImageContextStore(cfg.Routing.ImageContextMaxConversations)

	stack, err := buildRoutingStack(cfg, imageContexts, collector)
	if err != nil {
		return err
	}
	stack.janitor.Start()

	holder := &swappableRouter{}
	holder.current.Store(stack)
	defer func() {
		current := holder.current.Load()
		current.janitor.Stop()
		current.registry.Close()
	}()

	var transcripts *storage.TranscriptStore
	if cfg.Storage.Enabled {
		transcripts, err = storage.NewTranscriptStore(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open transcript store: %w", err)
		}
		defer transcripts.Close()
		slog.Info("transcript store enabled", "path", cfg.Storage.Path)
	} else {
		slog.Info("transcript store disabled, running in guest mode")
	}

	if runFlags.watch {
		watcher, err := config.NewWatcher(cfgFile, func(next *config.Config) {
			reloadRoutingStack(holder, next, imageContexts, collector)
		})
		if err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		defer watcher.Close()
	}

	handler := handlers.New(holder, transcripts, cfg.Gateway)
	srv := server.New(cfg.Gateway, handler, collector, metricsEnabled)

	slog.Info("gateway configured",
		"providers", len(cfg.Providers),
		"storage_enabled", cfg.Storage.Enabled,
		"metrics_enabled", metricsEnabled,
	)

	return srv.Start(cmd.Context())
}

// buildRoutingStack constructs the registry, processor, router, and
// janitor from one configuration snapshot.
func buildRoutingStack(cfg *config.Config, imageContexts *processing.ImageContextStore, collector *metrics.Collector) (*routingStack, error) {
	registry, err := routing.NewRegistry(cfg.Providers, providerfactory.NewCaller)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider registry: %w", err)
	}

	var describer processing.ImageDescriber
	if name := cfg.Routing.VisionDescriber; name != "" {
		p, okProvider := registry.Get(name)
		caller, okCaller := registry.Caller(name)
		if okProvider && okCaller {
			if models := p.ModelsFor(true); len(models) > 0 {
				describer = &processing.DescriberClient{Caller: caller, Model: models[0]}
			}
		}
		if describer == nil {
			slog.Warn("vision describer unavailable, image summarization disabled", "provider", name)
		}
	}

	processor := processing.NewProcessor(cfg.Routing.SystemPrompt, imageContexts, describer, 0)
	router := routing.NewRouter(cfg.Routing, registry, processor, routing.Options{Collector: collector})

	janitor, err := routing.NewJanitor(cfg.Routing.MaintenanceSchedule, router, imageContexts, cfg.Routing.AffinityTTL)
	if err != nil {
		registry.Close()
		return nil, err
	}

	return &routingStack{
		registry: registry,
		router:   router,
		janitor:  janitor,
	}, nil
}

// reloadRoutingStack replaces the routing stack after a config change.
// The old registry is closed after a grace period so in-flight requests
// finish on the callers they started with.
func reloadRoutingStack(holder *swappableRouter, cfg *config.Config, imageContexts *processing.ImageContextStore, collector *metrics.Collector) {
	next, err := buildRoutingStack(cfg, imageContexts, collector)
	if err != nil {
		slog.Error("config reload failed, keeping current catalog", "error", err)
		return
	}

	next.janitor.Start()
	old := holder.current.Swap(next)
	old.janitor.Stop()

	time.AfterFunc(30*time.Second, func() {
		if err := old.registry.Close(); err != nil {
			slog.Warn("failed to close replaced provider registry", "error", err)
		}
	})

	slog.Info("provider catalog reloaded", "providers", len(cfg.Providers))
}
