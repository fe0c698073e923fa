package routing

import (
	"sync"
	"time"
)

// FailureTracker keeps a rolling failure count per provider and derives
// a temporary blacklist from it. A provider is blacklisted once it
// accumulates threshold failures within the window; when the window
// elapses past the threshold the record is deleted entirely, so a
// provider that failed long ago is indistinguishable from one that
// never failed.
type FailureTracker struct {
	// records maps provider names to their failure state
	records map[string]*failureRecord

	// threshold is the failure count that triggers blacklisting
	threshold int

	// window is how long the blacklist holds after the last failure
	window time.Duration

	// mu protects concurrent access
	mu sync.Mutex

	// now is injectable for tests
	now func() time.Time
}

type failureRecord struct {
	Count         int
	LastFailureAt time.Time
}

// NewFailureTracker creates a tracker blacklisting providers after
// threshold failures for the duration of window.
func NewFailureTracker(threshold int, window time.Duration) *FailureTracker {
	return &FailureTracker{
		records:   make(map[string]*failureRecord),
		threshold: threshold,
		window:    window,
		now:       time.Now,
	}
}

// RecordFailure increments the provider's failure count and stamps the
// failure time.
func (t *FailureTracker) RecordFailure(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.records[name]
	if !ok {
		record = &failureRecord{}
		t.records[name] = record
	}
	record.Count++
	record.LastFailureAt = t.now()
}

// IsBlacklisted reports whether the provider is temporarily excluded.
// A record whose window has elapsed is deleted as a side effect.
func (t *FailureTracker) IsBlacklisted(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.records[name]
	if !ok {
		return false
	}

	if t.now().Sub(record.LastFailureAt) >= t.window {
		delete(t.records, name)
		return false
	}

	return record.Count >= t.threshold
}

// FailureCount returns the provider's current failure count.
func (t *FailureTracker) FailureCount(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.records[name]
	if !ok {
		return 0
	}
	return record.Count
}

// Reset clears the provider's failure record.
func (t *FailureTracker) Reset(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, name)
}

// Sweep deletes all records whose window has elapsed and returns how
// many were removed. Called periodically by the maintenance scheduler.
func (t *FailureTracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for name, record := range t.records {
		if now.Sub(record.LastFailureAt) >= t.window {
			delete(t.records, name)
			removed++
		}
	}
	return removed
}
