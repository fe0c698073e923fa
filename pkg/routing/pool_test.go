package routing

import (
	"math/rand"
	"testing"
	"time"

	mockrouting "venty-hq/relay/internal/routing"
	"venty-hq/relay/pkg/config"
	"venty-hq/relay/pkg/providers"
)

func newTestRegistry(t *testing.T, cfgs ...config.ProviderConfig) *Registry {
	t.Helper()

	factory := func(pc config.ProviderConfig) (providers.Caller, error) {
		return mockrouting.NewMockCaller(pc.Name, "ok"), nil
	}
	registry, err := NewRegistry(cfgs, factory)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	t.Cleanup(func() { registry.Close() })
	return registry
}

func poolCatalogConfigs() []config.ProviderConfig {
	return []config.ProviderConfig{
		{Name: "free-1", Family: "nvidia", Free: true, Priority: 1, Models: []string{"m"}},
		{Name: "free-2", Family: "nvidia", Free: true, Priority: 2, Models: []string{"m"}},
		{Name: "free-3", Family: "cerebras", Free: true, Priority: 1, Models: []string{"m"}},
		{Name: "paid-1", Family: "gemini", Priority: 1, Models: []string{"m"}, VisionModels: []string{"vm"}, SupportsVision: true},
		{Name: "paid-2", Family: "mistral", Priority: 2, Models: []string{"m"}},
	}
}

func TestGeneralPoolFreeBeforePaid(t *testing.T) {
	registry := newTestRegistry(t, poolCatalogConfigs()...)
	failures := NewFailureTracker(3, 5*time.Minute)
	builder := newPoolBuilder(registry, failures, 2, rand.NewSource(7))

	pool := builder.general(false)
	if len(pool) != 5 {
		t.Fatalf("pool size = %d, want 5", len(pool))
	}

	seenPaid := false
	for _, p := range pool {
		if !p.Free {
			seenPaid = true
		} else if seenPaid {
			t.Fatalf("free provider %q ordered after a paid one: %v", p.Name, poolNames(pool))
		}
	}
}

func TestGeneralPoolDeterministicWithSeed(t *testing.T) {
	registry := newTestRegistry(t, poolCatalogConfigs()...)
	failures := NewFailureTracker(3, 5*time.Minute)

	a := newPoolBuilder(registry, failures, 2, rand.NewSource(42)).general(false)
	b := newPoolBuilder(registry, failures, 2, rand.NewSource(42)).general(false)

	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("orderings diverge with identical seed: %v vs %v", poolNames(a), poolNames(b))
		}
	}
}

func TestGeneralPoolFiltersBlacklistedAndVision(t *testing.T) {
	registry := newTestRegistry(t, poolCatalogConfigs()...)
	failures := NewFailureTracker(3, 5*time.Minute)
	builder := newPoolBuilder(registry, failures, 2, rand.NewSource(7))

	for i := 0; i < 3; i++ {
		failures.RecordFailure("free-1")
	}

	pool := builder.general(false)
	for _, p := range pool {
		if p.Name == "free-1" {
			t.Error("blacklisted provider in pool")
		}
	}
	if len(pool) != 4 {
		t.Errorf("pool size = %d, want 4", len(pool))
	}

	visionPool := builder.general(true)
	if len(visionPool) != 1 || visionPool[0].Name != "paid-1" {
		t.Errorf("vision pool = %v, want [paid-1]", poolNames(visionPool))
	}
}

func TestSimilarOrderingAndCap(t *testing.T) {
	registry := newTestRegistry(t,
		config.ProviderConfig{Name: "origin", Family: "nvidia", Free: true, Priority: 1, Models: []string{"m"}},
		config.ProviderConfig{Name: "paid-sib", Family: "nvidia", Priority: 1, Models: []string{"m"}},
		config.ProviderConfig{Name: "free-sib-2", Family: "nvidia", Free: true, Priority: 2, Models: []string{"m"}},
		config.ProviderConfig{Name: "free-sib-1", Family: "nvidia", Free: true, Priority: 1, Models: []string{"m"}},
		config.ProviderConfig{Name: "stranger", Family: "gemini", Free: true, Priority: 1, Models: []string{"m"}},
	)
	failures := NewFailureTracker(3, 5*time.Minute)
	builder := newPoolBuilder(registry, failures, 2, rand.NewSource(7))

	origin, _ := registry.Get("origin")
	similar := builder.similar(origin, false)

	want := []string{"free-sib-1", "free-sib-2"}
	if len(similar) != len(want) {
		t.Fatalf("similar = %v, want %v", poolNames(similar), want)
	}
	for i, name := range want {
		if similar[i].Name != name {
			t.Errorf("similar[%d] = %q, want %q", i, similar[i].Name, name)
		}
	}
}

func TestSimilarExcludesBlacklisted(t *testing.T) {
	registry := newTestRegistry(t,
		config.ProviderConfig{Name: "origin", Family: "nvidia", Free: true, Priority: 1, Models: []string{"m"}},
		config.ProviderConfig{Name: "sibling", Family: "nvidia", Free: true, Priority: 2, Models: []string{"m"}},
	)
	failures := NewFailureTracker(3, 5*time.Minute)
	builder := newPoolBuilder(registry, failures, 2, rand.NewSource(7))

	for i := 0; i < 3; i++ {
		failures.RecordFailure("sibling")
	}

	origin, _ := registry.Get("origin")
	if similar := builder.similar(origin, false); len(similar) != 0 {
		t.Errorf("similar = %v, want empty", poolNames(similar))
	}
}

func poolNames(ps []*Provider) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
