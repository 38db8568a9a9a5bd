package slotcache

import (
	"context"
	"testing"
	"time"

	"acenumerik.fr/models"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)
	key := Key("2026-10-16", 3)
	if _, ok := c.Get(ctx, key); ok {
		t.Fatalf("expected miss on empty cache")
	}
	c.Set(ctx, key, []models.TimeSlot{{ID: "20261016-0900", Available: true}})
	got, ok := c.Get(ctx, key)
	if !ok || len(got) != 1 || got[0].ID != "20261016-0900" {
		t.Fatalf("unexpected cache content: %v %v", got, ok)
	}
	got[0].Available = false
	again, _ := c.Get(ctx, key)
	if !again[0].Available {
		t.Fatalf("callers must not be able to mutate cached slots")
	}
}

func TestMemoryCacheInvalidateDate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)
	c.Set(ctx, Key("2026-10-16", 1), nil)
	c.Set(ctx, Key("2026-10-16", 2), nil)
	c.Set(ctx, Key("2026-10-17", 1), nil)

	c.InvalidateDate(ctx, "2026-10-16")

	if _, ok := c.Get(ctx, Key("2026-10-16", 1)); ok {
		t.Fatalf("entry for invalidated day still cached")
	}
	if _, ok := c.Get(ctx, Key("2026-10-16", 2)); ok {
		t.Fatalf("entry for invalidated day still cached")
	}
	if _, ok := c.Get(ctx, Key("2026-10-17", 1)); !ok {
		t.Fatalf("entry for another day was dropped")
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, 10*time.Millisecond)
	c.Set(ctx, Key("2026-10-16", 1), []models.TimeSlot{{ID: "x"}})
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get(ctx, Key("2026-10-16", 1)); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestKeyDoesNotCollideAcrossDays(t *testing.T) {
	if hasDate(Key("2026-10-1", 6), "2026-10-16") {
		t.Fatalf("prefix match leaked across days")
	}
}
