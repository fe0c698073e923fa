package routing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/processing"
	"venty-hq/relay/pkg/providers"
	"venty-hq/relay/pkg/telemetry/metrics"
)

// Request is one chat request entering the router.
type Request struct {
	// ConversationID keys provider affinity and image context. Empty for
	// one-shot requests.
	ConversationID string

	// VisionHint is the caller's explicit request for a vision-capable
	// mode.
	VisionHint bool

	// Messages is the raw inbound message list.
	Messages []processing.RawMessage
}

// Result is a successful buffered completion.
type Result struct {
	Content  string
	Provider string
	Model    string

	// Raw is the provider's response payload, kept for diagnostics.
	Raw json.RawMessage
}

// StreamResult is a successfully opened completion stream. The caller
// owns Reader and must Close it.
type StreamResult struct {
	Provider string
	Model    string
	Reader   providers.StreamReader
}

// attemptFunc performs one call against a selected provider/model.
// Buffered and streaming completion differ only in this unit of work.
type attemptFunc func(ctx context.Context, caller providers.Caller, model string, messages []providers.Message) error

// Options carries optional router collaborators.
type Options struct {
	// RandSource seeds candidate shuffling; injectable for deterministic
	// tests. Defaults to a time-seeded source.
	RandSource rand.Source

	// Collector records routing and provider metrics. May be nil.
	Collector *metrics.Collector
}

// Router selects among the configured providers, executes calls, and
// fails over across providers and models. Candidates are tried strictly
// sequentially: providers are credentialed and priced independently, so
// speculative parallel calls would waste paid quota.
//
// All mutable routing state (failure counts, rotation indices, affinity,
// image context) is owned by the router instance; construct one per
// process, or one per test.
type Router struct {
	registry  *Registry
	processor *processing.Processor

	failures *FailureTracker
	rotator  *ModelRotator
	affinity *AffinityCache
	pool     *poolBuilder

	maxModelAttempts int

	providerMetrics *metrics.ProviderMetrics
	routingMetrics  *metrics.RoutingMetrics
}

// NewRouter creates a router over the given catalog and processor.
func NewRouter(cfg config.RoutingConfig, registry *Registry, processor *processing.Processor, opts Options) *Router {
	source := opts.RandSource
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}

	failures := NewFailureTracker(cfg.BlacklistThreshold, cfg.BlacklistWindow)

	return &Router{
		registry:         registry,
		processor:        processor,
		failures:         failures,
		rotator:          NewModelRotator(),
		affinity:         NewAffinityCache(cfg.AffinityTTL, cfg.AffinityMaxEntries),
		pool:             newPoolBuilder(registry, failures, cfg.SimilarProviderLimit, source),
		maxModelAttempts: cfg.MaxModelAttempts,
		providerMetrics:  opts.Collector.ProviderMetrics(),
		routingMetrics:   opts.Collector.RoutingMetrics(),
	}
}

// Failures exposes the failure tracker for maintenance sweeps.
func (r *Router) Failures() *FailureTracker {
	return r.failures
}

// Affinity exposes the affinity cache for maintenance sweeps.
func (r *Router) Affinity() *AffinityCache {
	return r.affinity
}

// Complete runs a buffered completion against the first candidate that
// succeeds.
func (r *Router) Complete(ctx context.Context, req *Request) (*Result, error) {
	var result *Result
	err := r.route(ctx, req, func(ctx context.Context, caller providers.Caller, model string, messages []providers.Message) error {
		resp, err := caller.Complete(ctx, model, messages)
		if err != nil {
			return err
		}
		result = &Result{
			Content:  resp.Content,
			Provider: caller.Name(),
			Model:    model,
			Raw:      resp.Raw,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Stream opens a completion stream against the first candidate that
// accepts the request. Failover happens only while opening the stream;
// once a stream is returned, mid-stream errors belong to the caller.
func (r *Router) Stream(ctx context.Context, req *Request) (*StreamResult, error) {
	var result *StreamResult
	err := r.route(ctx, req, func(ctx context.Context, caller providers.Caller, model string, messages []providers.Message) error {
		reader, err := caller.Stream(ctx, model, messages)
		if err != nil {
			return err
		}
		result = &StreamResult{
			Provider: caller.Name(),
			Model:    model,
			Reader:   reader,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// route drives the shared selection state machine: resolve vision and
// messages, try the affinity provider, widen to similar providers on its
// failure, then walk the general pool. Cancellation short-circuits at
// every checkpoint and is never recorded as a provider failure.
func (r *Router) route(ctx context.Context, req *Request, attempt attemptFunc) error {
	if err := ctx.Err(); err != nil {
		r.routingMetrics.RecordCancellation()
		return &providers.CancellationError{Cause: err}
	}

	hasImageContext := req.ConversationID != "" && r.processor.Store().Has(req.ConversationID)
	vision := processing.ResolveVision(req.Messages, req.VisionHint, hasImageContext)
	messages := r.processor.Process(req.ConversationID, req.Messages)

	slog.Debug("routing request",
		"conversation_id", req.ConversationID,
		"vision", vision,
		"message_count", len(messages),
	)

	state := &routeState{
		router:   r,
		req:      req,
		vision:   vision,
		messages: messages,
		attempt:  attempt,
		tried:    make(map[string]bool),
	}

	// Affinity path: the conversation's remembered provider first, then a
	// small same-family fallback set before widening to the general pool.
	if req.ConversationID != "" {
		if name, ok := r.affinity.Get(req.ConversationID); ok {
			if p, found := r.registry.Get(name); found && r.pool.eligible(p, vision) {
				done, err := state.try(ctx, p, metrics.PathAffinity)
				if err != nil || done {
					return err
				}

				for _, similar := range r.pool.similar(p, vision) {
					done, err := state.try(ctx, similar, metrics.PathSimilar)
					if err != nil || done {
						return err
					}
				}
			}
		}
	}

	for _, p := range r.pool.general(vision) {
		if state.tried[p.Name] {
			continue
		}
		done, err := state.try(ctx, p, metrics.PathGeneral)
		if err != nil || done {
			return err
		}
	}

	if len(state.attempted) == 0 {
		return &NoProvidersAvailableError{Vision: vision}
	}

	r.routingMetrics.RecordExhaustion()
	slog.Error("all providers failed",
		"conversation_id", req.ConversationID,
		"attempted", state.attempted,
	)
	return &AllProvidersFailedError{
		AttemptedProviders: state.attempted,
		LastError:          state.lastErr,
	}
}

// routeState tracks one request's progress through the candidate pools.
type routeState struct {
	router   *Router
	req      *Request
	vision   bool
	messages []providers.Message
	attempt  attemptFunc

	tried     map[string]bool
	attempted []string
	lastErr   error
}

// try runs the bounded attempt loop against one candidate. It returns
// done=true on success, an error only for cancellation, and (false, nil)
// when the candidate is exhausted and the search should continue.
func (s *routeState) try(ctx context.Context, p *Provider, path string) (bool, error) {
	r := s.router
	s.tried[p.Name] = true

	caller, ok := r.registry.Caller(p.Name)
	if !ok {
		return false, nil
	}

	models := p.ModelsFor(s.vision)
	attempts := r.maxModelAttempts
	if len(models) < attempts {
		attempts = len(models)
	}

	failed := false
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			r.routingMetrics.RecordCancellation()
			return false, &providers.CancellationError{Provider: p.Name, Cause: err}
		}

		model := r.rotator.NextModel(p.Name, models)

		slog.Debug("attempting provider",
			"provider", p.Name,
			"model", model,
			"path", path,
			"attempt", i+1,
		)

		start := time.Now()
		r.providerMetrics.RecordRequest(p.Name, model)
		err := s.attempt(ctx, caller, model, s.messages)
		r.providerMetrics.RecordLatency(p.Name, model, time.Since(start).Seconds())

		if err == nil {
			if s.req.ConversationID != "" {
				r.affinity.Set(s.req.ConversationID, p.Name)
			}
			r.routingMetrics.RecordDecision(path, p.Name)
			slog.Info("provider selected",
				"provider", p.Name,
				"model", model,
				"path", path,
			)
			return true, nil
		}

		if providers.IsCancellation(err) {
			r.routingMetrics.RecordCancellation()
			return false, err
		}

		failed = true
		s.lastErr = err
		r.failures.RecordFailure(p.Name)
		r.providerMetrics.RecordError(p.Name, errorKind(err))
		r.providerMetrics.SetBlacklisted(p.Name, r.failures.IsBlacklisted(p.Name))

		slog.Warn("provider attempt failed",
			"provider", p.Name,
			"model", model,
			"error", err,
		)
	}

	if failed {
		s.attempted = append(s.attempted, p.Name)
	}
	return false, nil
}

// errorKind maps an attempt error to a metric label.
func errorKind(err error) string {
	var pe *providers.ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	var parseErr *providers.ParseError
	if errors.As(err, &parseErr) {
		return providers.KindBadResponse
	}
	return providers.KindTransport
}
