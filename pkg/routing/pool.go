package routing

import (
	"math/rand"
	"sort"
	"sync"
)

// poolBuilder produces candidate provider orderings for a request:
// the general pool (vision/blacklist filtered, free providers shuffled
// ahead of paid) and the similar-provider set searched after an affinity
// failure.
//
// Free-tier shuffling spreads load across equivalent free providers
// instead of always hammering the first catalog entry. The random
// source is injectable so tests can assert deterministic orderings.
type poolBuilder struct {
	registry *Registry
	failures *FailureTracker

	// similarLimit caps the similar-provider search
	similarLimit int

	// rng is guarded by mu; rand.Rand is not safe for concurrent use
	rng *rand.Rand
	mu  sync.Mutex
}

func newPoolBuilder(registry *Registry, failures *FailureTracker, similarLimit int, source rand.Source) *poolBuilder {
	return &poolBuilder{
		registry:     registry,
		failures:     failures,
		similarLimit: similarLimit,
		rng:          rand.New(source),
	}
}

// eligible reports whether a provider can serve the request modality and
// is not temporarily blacklisted.
func (b *poolBuilder) eligible(p *Provider, vision bool) bool {
	if len(p.ModelsFor(vision)) == 0 {
		return false
	}
	return !b.failures.IsBlacklisted(p.Name)
}

// general builds the full candidate ordering: all eligible providers,
// free tier first in random order, then paid tier in random order.
func (b *poolBuilder) general(vision bool) []*Provider {
	var free, paid []*Provider
	for _, p := range b.registry.All() {
		if !b.eligible(p, vision) {
			continue
		}
		if p.Free {
			free = append(free, p)
		} else {
			paid = append(paid, p)
		}
	}

	b.shuffle(free)
	b.shuffle(paid)

	return append(free, paid...)
}

// similar builds the small fallback set searched after an affinity
// provider fails: eligible providers of the same vendor family, free
// before paid, then by priority, capped to similarLimit.
func (b *poolBuilder) similar(to *Provider, vision bool) []*Provider {
	var candidates []*Provider
	for _, p := range b.registry.All() {
		if p.Name == to.Name || p.Family != to.Family {
			continue
		}
		if !b.eligible(p, vision) {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Free != candidates[j].Free {
			return candidates[i].Free
		}
		return candidates[i].Priority < candidates[j].Priority
	})

	if len(candidates) > b.similarLimit {
		candidates = candidates[:b.similarLimit]
	}
	return candidates
}

func (b *poolBuilder) shuffle(ps []*Provider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rng.Shuffle(len(ps), func(i, j int) {
		ps[i], ps[j] = ps[j], ps[i]
	})
}
