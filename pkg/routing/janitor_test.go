package routing

import (
	"testing"
	"time"
)

func TestNewJanitorRejectsBadSchedule(t *testing.T) {
	tc := newTestCatalog(t, testRoutingConfig(), defaultCatalogConfigs()...)

	if _, err := NewJanitor("not a schedule", tc.router, nil, time.Hour); err == nil {
		t.Error("NewJanitor() accepted an invalid cron expression")
	}
	if _, err := NewJanitor("@every 5m", tc.router, nil, time.Hour); err != nil {
		t.Errorf("NewJanitor() error = %v for valid schedule", err)
	}
}

func TestJanitorSweepClearsStaleState(t *testing.T) {
	tc := newTestCatalog(t, testRoutingConfig(), defaultCatalogConfigs()...)

	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tc.router.Failures().now = func() time.Time { return past }
	tc.router.Affinity().now = func() time.Time { return past }
	tc.router.Failures().RecordFailure("alpha")
	tc.router.Affinity().Set("conv-1", "alpha")
	tc.router.processor.Store().Put("conv-1", "a cat")

	// Jump well past every retention horizon.
	now := past.Add(24 * time.Hour)
	tc.router.Failures().now = func() time.Time { return now }
	tc.router.Affinity().now = func() time.Time { return now }

	// The image store runs on the wall clock; a nanosecond horizon makes
	// the entry stored above already stale.
	janitor, err := NewJanitor("@every 5m", tc.router, tc.router.processor.Store(), time.Nanosecond)
	if err != nil {
		t.Fatalf("NewJanitor() error = %v", err)
	}
	janitor.sweep()

	if n := tc.router.Failures().FailureCount("alpha"); n != 0 {
		t.Errorf("stale failure record survived sweep: count = %d", n)
	}
	if tc.router.Affinity().Size() != 0 {
		t.Error("expired affinity survived sweep")
	}
	if tc.router.processor.Store().Size() != 0 {
		t.Error("aged-out image context survived sweep")
	}
}
