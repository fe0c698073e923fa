package processing

import (
	"fmt"
	"testing"
	"time"
)

func TestImageContextStorePutLatest(t *testing.T) {
	store := NewImageContextStore(10)

	if _, ok := store.Latest("conv-1"); ok {
		t.Error("Latest() on empty store returned a value")
	}
	if store.Has("conv-1") {
		t.Error("Has() on empty store = true")
	}

	store.Put("conv-1", "a cat")
	store.Put("conv-2", "a dog")

	if summary, ok := store.Latest("conv-1"); !ok || summary != "a cat" {
		t.Errorf("Latest(conv-1) = %q, %v", summary, ok)
	}

	// A newer summary replaces the old one for the same conversation.
	store.Put("conv-1", "a cat wearing a hat")
	if summary, _ := store.Latest("conv-1"); summary != "a cat wearing a hat" {
		t.Errorf("Latest(conv-1) after replace = %q", summary)
	}
	if store.Size() != 2 {
		t.Errorf("Size() = %d, want 2", store.Size())
	}
}

func TestImageContextStoreScopedByConversation(t *testing.T) {
	store := NewImageContextStore(10)
	store.Put("conv-1", "a cat")

	if store.Has("conv-2") {
		t.Error("summary leaked to another conversation")
	}
}

func TestImageContextStoreEmptyIDIgnored(t *testing.T) {
	store := NewImageContextStore(10)
	store.Put("", "a cat")

	if store.Size() != 0 {
		t.Error("entry stored for empty conversation id")
	}
}

func TestImageContextStoreLRUEviction(t *testing.T) {
	store := NewImageContextStore(3)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		store.Put(fmt.Sprintf("conv-%d", i), "summary")
		current = current.Add(time.Second)
	}

	// Touch conv-0 so conv-1 becomes the least recently used.
	store.Latest("conv-0")
	current = current.Add(time.Second)

	store.Put("conv-3", "summary")
	if store.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", store.Size())
	}
	if store.Has("conv-1") {
		t.Error("least recently used entry not evicted")
	}
	if !store.Has("conv-0") {
		t.Error("recently touched entry evicted")
	}
}

func TestImageContextStoreSweep(t *testing.T) {
	store := NewImageContextStore(10)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	store.Put("stale", "old summary")
	current = current.Add(2 * time.Hour)
	store.Put("fresh", "new summary")
	current = current.Add(30 * time.Minute)

	if removed := store.Sweep(time.Hour); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if !store.Has("fresh") {
		t.Error("fresh entry swept")
	}

	if removed := store.Sweep(0); removed != 0 {
		t.Errorf("Sweep(0) removed %d, want 0", removed)
	}
}
