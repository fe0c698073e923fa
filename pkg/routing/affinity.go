package routing

import (
	"sync"
	"time"
)

// AffinityCache maps conversation ids to the provider that last
// succeeded for them, so follow-up turns keep hitting the same vendor.
// Entries expire after the configured TTL and the cache evicts the least
// recently accessed entry once maxEntries is reached. Affinity is a soft
// hint: it is set on success, never removed on failure, and losing an
// entry only costs a re-resolution.
type AffinityCache struct {
	// entries maps conversation ids to affinity entries
	entries map[string]*affinityEntry

	// ttl is the time-to-live for entries (0 = no expiry)
	ttl time.Duration

	// maxEntries bounds the cache (0 = unlimited)
	maxEntries int

	// mu protects concurrent access
	mu sync.Mutex

	// now is injectable for tests
	now func() time.Time
}

type affinityEntry struct {
	ProviderName   string
	ExpiresAt      time.Time
	LastAccessedAt time.Time
}

// NewAffinityCache creates a cache with the given TTL and entry bound.
func NewAffinityCache(ttl time.Duration, maxEntries int) *AffinityCache {
	return &AffinityCache{
		entries:    make(map[string]*affinityEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the affinity provider for a conversation, if one is
// recorded and not expired.
func (c *AffinityCache) Get(conversationID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[conversationID]
	if !ok {
		return "", false
	}

	if c.ttl > 0 && c.now().After(entry.ExpiresAt) {
		delete(c.entries, conversationID)
		return "", false
	}

	entry.LastAccessedAt = c.now()
	return entry.ProviderName, true
}

// Set records the provider for a conversation, evicting the least
// recently used entry if the cache is full.
func (c *AffinityCache) Set(conversationID, providerName string) {
	if conversationID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[conversationID]; !exists {
			c.evictLRU()
		}
	}

	now := c.now()
	expiresAt := time.Time{}
	if c.ttl > 0 {
		expiresAt = now.Add(c.ttl)
	}

	c.entries[conversationID] = &affinityEntry{
		ProviderName:   providerName,
		ExpiresAt:      expiresAt,
		LastAccessedAt: now,
	}
}

// Delete removes a conversation's affinity.
func (c *AffinityCache) Delete(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, conversationID)
}

// Size returns the number of recorded affinities.
func (c *AffinityCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Sweep removes expired entries and returns how many were removed.
// Called periodically by the maintenance scheduler.
func (c *AffinityCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl == 0 {
		return 0
	}

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// evictLRU removes the least recently accessed entry. Caller must hold
// the lock.
func (c *AffinityCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.LastAccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastAccessedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
