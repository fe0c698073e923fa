package routing

import (
	"testing"
	"time"
)

func TestFailureTrackerThreshold(t *testing.T) {
	tracker := NewFailureTracker(3, 5*time.Minute)

	for i := 0; i < 2; i++ {
		tracker.RecordFailure("nvidia-1")
	}
	if tracker.IsBlacklisted("nvidia-1") {
		t.Error("blacklisted below threshold")
	}

	tracker.RecordFailure("nvidia-1")
	if !tracker.IsBlacklisted("nvidia-1") {
		t.Error("not blacklisted at threshold")
	}

	if tracker.IsBlacklisted("nvidia-2") {
		t.Error("unrelated provider blacklisted")
	}
}

func TestFailureTrackerWindowExpiry(t *testing.T) {
	tracker := NewFailureTracker(3, 5*time.Minute)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		tracker.RecordFailure("nvidia-1")
	}
	if !tracker.IsBlacklisted("nvidia-1") {
		t.Fatal("not blacklisted at threshold")
	}

	// One tick short of the window: still blacklisted.
	current = current.Add(5*time.Minute - time.Second)
	if !tracker.IsBlacklisted("nvidia-1") {
		t.Error("blacklist lifted before window elapsed")
	}

	// Window elapsed: lifted, and the record is gone entirely.
	current = current.Add(time.Second)
	if tracker.IsBlacklisted("nvidia-1") {
		t.Error("blacklist held past window")
	}
	if n := tracker.FailureCount("nvidia-1"); n != 0 {
		t.Errorf("failure count after expiry = %d, want 0 (record deleted)", n)
	}

	// A fresh failure starts counting from one, not from the old total.
	tracker.RecordFailure("nvidia-1")
	if tracker.IsBlacklisted("nvidia-1") {
		t.Error("blacklisted again after a single fresh failure")
	}
	if n := tracker.FailureCount("nvidia-1"); n != 1 {
		t.Errorf("failure count = %d, want 1", n)
	}
}

func TestFailureTrackerReset(t *testing.T) {
	tracker := NewFailureTracker(3, 5*time.Minute)

	for i := 0; i < 3; i++ {
		tracker.RecordFailure("nvidia-1")
	}
	tracker.Reset("nvidia-1")

	if tracker.IsBlacklisted("nvidia-1") {
		t.Error("blacklisted after reset")
	}
	if n := tracker.FailureCount("nvidia-1"); n != 0 {
		t.Errorf("failure count after reset = %d, want 0", n)
	}
}

func TestFailureTrackerSweep(t *testing.T) {
	tracker := NewFailureTracker(3, 5*time.Minute)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return current }

	tracker.RecordFailure("stale")
	current = current.Add(3 * time.Minute)
	tracker.RecordFailure("fresh")
	current = current.Add(2 * time.Minute)

	if removed := tracker.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if n := tracker.FailureCount("fresh"); n != 1 {
		t.Errorf("fresh record swept: count = %d, want 1", n)
	}
}
