package routing

import (
	"fmt"
	"testing"
	"time"
)

func TestAffinityCacheSetGet(t *testing.T) {
	cache := NewAffinityCache(time.Hour, 100)

	if _, ok := cache.Get("conv-1"); ok {
		t.Error("Get() on empty cache returned a value")
	}

	cache.Set("conv-1", "nvidia-1")
	name, ok := cache.Get("conv-1")
	if !ok || name != "nvidia-1" {
		t.Errorf("Get() = %q, %v; want nvidia-1, true", name, ok)
	}

	// Later success overwrites.
	cache.Set("conv-1", "gemini")
	if name, _ := cache.Get("conv-1"); name != "gemini" {
		t.Errorf("Get() after overwrite = %q, want gemini", name)
	}
}

func TestAffinityCacheEmptyConversationIgnored(t *testing.T) {
	cache := NewAffinityCache(time.Hour, 100)

	cache.Set("", "nvidia-1")
	if cache.Size() != 0 {
		t.Error("entry recorded for empty conversation id")
	}
}

func TestAffinityCacheTTLExpiry(t *testing.T) {
	cache := NewAffinityCache(time.Hour, 100)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	cache.Set("conv-1", "nvidia-1")

	current = current.Add(59 * time.Minute)
	if _, ok := cache.Get("conv-1"); !ok {
		t.Error("entry expired before TTL")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := cache.Get("conv-1"); ok {
		t.Error("entry survived past TTL")
	}
	if cache.Size() != 0 {
		t.Error("expired entry not deleted on read")
	}
}

func TestAffinityCacheLRUEviction(t *testing.T) {
	cache := NewAffinityCache(time.Hour, 3)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("conv-%d", i), "nvidia-1")
		current = current.Add(time.Second)
	}

	// Touch conv-0 so conv-1 becomes the least recently used.
	cache.Get("conv-0")
	current = current.Add(time.Second)

	cache.Set("conv-3", "gemini")
	if cache.Size() != 3 {
		t.Fatalf("size = %d, want 3", cache.Size())
	}
	if _, ok := cache.Get("conv-1"); ok {
		t.Error("least recently used entry not evicted")
	}
	if _, ok := cache.Get("conv-0"); !ok {
		t.Error("recently touched entry evicted")
	}
}

func TestAffinityCacheSweep(t *testing.T) {
	cache := NewAffinityCache(time.Hour, 100)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	cache.Set("stale", "nvidia-1")
	current = current.Add(30 * time.Minute)
	cache.Set("fresh", "nvidia-1")
	current = current.Add(31 * time.Minute)

	if removed := cache.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if _, ok := cache.Get("fresh"); !ok {
		t.Error("fresh entry swept")
	}
}
