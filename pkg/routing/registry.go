package routing

import (
	"fmt"
	"strings"

	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/providers"
)

// Provider is one immutable catalog entry. The record itself is never
// mutated after construction; all per-provider runtime state lives in
// the router's side tables.
type Provider struct {
	// Name uniquely identifies the provider.
	Name string

	// Family groups providers of the same vendor for similar-provider
	// search.
	Family string

	// Models is the ordered list of text model identifiers.
	Models []string

	// VisionModels is the ordered list of vision-capable model
	// identifiers. May be empty for providers whose text models accept
	// multimodal input.
	VisionModels []string

	// SupportsVision reports whether the provider accepts image content.
	SupportsVision bool

	// Free reports whether calls to this provider are unmetered.
	Free bool

	// Priority orders providers within a tier (lower = tried first).
	Priority int
}

// multimodalMarkers identify text models that accept image input when a
// vision-capable provider lists no dedicated vision models.
var multimodalMarkers = []string{"vision", "gpt-4", "gemini", "pixtral", "llama-3.2"}

// ModelsFor returns the model list applicable to the request modality.
// For vision requests without dedicated vision models, text models
// carrying a multimodal marker are used instead.
func (p *Provider) ModelsFor(vision bool) []string {
	if !vision {
		return p.Models
	}
	if !p.SupportsVision {
		return nil
	}
	if len(p.VisionModels) > 0 {
		return p.VisionModels
	}

	var models []string
	for _, m := range p.Models {
		lower := strings.ToLower(m)
		for _, marker := range multimodalMarkers {
			if strings.Contains(lower, marker) {
				models = append(models, m)
				break
			}
		}
	}
	return models
}

// CallerFactory creates the wire caller for one configured provider.
// providerfactory.NewCaller satisfies this.
type CallerFactory func(config.ProviderConfig) (providers.Caller, error)

// Registry is the read-only provider catalog plus the wire callers bound
// to each entry. Constructed once at startup; construction failures are
// configuration errors.
type Registry struct {
	entries []*Provider
	byName  map[string]*Provider
	callers map[string]providers.Caller
}

// NewRegistry builds the catalog and its callers from configuration.
func NewRegistry(cfgs []config.ProviderConfig, factory CallerFactory) (*Registry, error) {
	if len(cfgs) == 0 {
		return nil, &providers.ConfigError{
			Field:   "providers",
			Message: "no providers configured",
		}
	}

	r := &Registry{
		byName:  make(map[string]*Provider, len(cfgs)),
		callers: make(map[string]providers.Caller, len(cfgs)),
	}

	for _, cfg := range cfgs {
		if _, exists := r.byName[cfg.Name]; exists {
			r.Close()
			return nil, &providers.ConfigError{
				Provider: cfg.Name,
				Field:    "name",
				Message:  "duplicate provider name",
			}
		}

		caller, err := factory(cfg)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to create caller for provider %q: %w", cfg.Name, err)
		}

		entry := &Provider{
			Name:           cfg.Name,
			Family:         cfg.Family,
			Models:         append([]string(nil), cfg.Models...),
			VisionModels:   append([]string(nil), cfg.VisionModels...),
			SupportsVision: cfg.SupportsVision,
			Free:           cfg.Free,
			Priority:       cfg.Priority,
		}

		r.entries = append(r.entries, entry)
		r.byName[cfg.Name] = entry
		r.callers[cfg.Name] = caller
	}

	return r, nil
}

// All returns every catalog entry in configuration order.
func (r *Registry) All() []*Provider {
	return r.entries
}

// Get returns the catalog entry for a provider name.
func (r *Registry) Get(name string) (*Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Caller returns the wire caller bound to a provider name.
func (r *Registry) Caller(name string) (providers.Caller, bool) {
	c, ok := r.callers[name]
	return c, ok
}

// Close releases all provider callers.
func (r *Registry) Close() error {
	var firstErr error
	for name, caller := range r.callers {
		if err := caller.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close caller %q: %w", name, err)
		}
	}
	return firstErr
}
