package processing

import (
	"sync"
	"time"
)

// ImageContextStore keeps the most recent textual image summary per
// conversation. Summaries let text-only providers continue a conversation
// after an image turn without re-sending the image.
//
// The store is scoped by conversation id so summaries never leak across
// conversations in a shared process. Eviction is LRU once maxEntries is
// reached; stale entries are removed by periodic sweeps.
type ImageContextStore struct {
	// entries maps conversation ids to their latest summary
	entries map[string]*imageContextEntry

	// maxEntries bounds the store (0 = unlimited)
	maxEntries int

	// mu protects concurrent access
	mu sync.RWMutex

	// now is injectable for tests
	now func() time.Time
}

type imageContextEntry struct {
	Summary        string
	StoredAt       time.Time
	LastAccessedAt time.Time
}

// NewImageContextStore creates a store bounded to maxEntries
// conversations. If maxEntries is 0, the store is unbounded.
func NewImageContextStore(maxEntries int) *ImageContextStore {
	return &ImageContextStore{
		entries:    make(map[string]*imageContextEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put records a summary for the conversation, replacing any previous one.
func (s *ImageContextStore) Put(conversationID, summary string) {
	if conversationID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		if _, exists := s.entries[conversationID]; !exists {
			s.evictLRU()
		}
	}

	now := s.now()
	s.entries[conversationID] = &imageContextEntry{
		Summary:        summary,
		StoredAt:       now,
		LastAccessedAt: now,
	}
}

// Latest returns the most recent summary for the conversation.
func (s *ImageContextStore) Latest(conversationID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[conversationID]
	if !ok {
		return "", false
	}

	entry.LastAccessedAt = s.now()
	return entry.Summary, true
}

// Has reports whether a summary exists for the conversation.
func (s *ImageContextStore) Has(conversationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[conversationID]
	return ok
}

// Size returns the number of conversations with a stored summary.
func (s *ImageContextStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Sweep removes entries older than maxAge and returns how many were
// removed. Called periodically by the maintenance scheduler.
func (s *ImageContextStore) Sweep(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for key, entry := range s.entries {
		if entry.StoredAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// evictLRU removes the least recently accessed entry. Caller must hold
// the write lock.
func (s *ImageContextStore) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range s.entries {
		if oldestKey == "" || entry.LastAccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastAccessedAt
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}
