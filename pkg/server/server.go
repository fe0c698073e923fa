// Package server wires the gateway's HTTP server: routes, middleware,
// and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/proxy/handlers"
	"venty-hq/relay/pkg/proxy/middleware"
	"venty-hq/relay/pkg/telemetry/metrics"
)

// Server is the gateway HTTP server.
type Server struct {
	config config.GatewayConfig

	handler   *handlers.Handler
	collector *metrics.Collector

	// metricsEnabled exposes /metrics when true
	metricsEnabled bool

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// New creates a server over the given handler set. collector may be nil.
func New(cfg config.GatewayConfig, handler *handlers.Handler, collector *metrics.Collector, metricsEnabled bool) *Server {
	return &Server{
		config:         cfg,
		handler:        handler,
		collector:      collector,
		metricsEnabled: metricsEnabled && collector != nil,
		shutdownChan:   make(chan struct{}),
	}
}

// setupRoutes builds the mux and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	s.handler.Register(mux)

	if s.metricsEnabled {
		mux.Handle("GET /metrics", s.collector.Handler())
	}

	var h http.Handler = mux
	h = middleware.Recovery(h)
	h = middleware.Logging(s.collector.RequestMetrics())(h)
	h = middleware.RequestID(h)
	return h
}

// Start starts the HTTP server and blocks until shutdown, a fatal server
// error, or a termination signal.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return nil
	}
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for in-flight requests (including open streams).
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		defer close(s.shutdownChan)

		if s.httpServer == nil {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		slog.Info("shutting down gateway server", "timeout", s.config.ShutdownTimeout)
		if shutdownErr := s.httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			err = fmt.Errorf("shutdown error: %w", shutdownErr)
		}
	})
	return err
}
