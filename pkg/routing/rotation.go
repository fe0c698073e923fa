package routing

import "sync"

// ModelRotator keeps a per-provider round-robin index over model lists,
// spreading attempts across a provider's models rather than always
// hitting the first one. Rotation state is per provider, not per
// provider+modality: a vision call advances the same index a text call
// reads next.
type ModelRotator struct {
	// indices maps provider names to the last used index
	indices map[string]int

	// mu protects concurrent access
	mu sync.Mutex
}

// NewModelRotator creates an empty rotator.
func NewModelRotator() *ModelRotator {
	return &ModelRotator{
		indices: make(map[string]int),
	}
}

// NextModel advances the provider's rotation index and returns the model
// at the new position. An empty model list returns "" — callers filter
// out providers with no applicable models before rotating.
func (r *ModelRotator) NextModel(providerName string, models []string) string {
	if len(models) == 0 {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := (r.indices[providerName] + 1) % len(models)
	r.indices[providerName] = next
	return models[next]
}
