package slotcache

import (
	"context"
	"time"

	"acenumerik.fr/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process expirable LRU.
type MemoryCache struct {
	lru *expirable.LRU[string, []models.TimeSlot]
}

// NewMemoryCache keeps at most size entries, each for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []models.TimeSlot](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]models.TimeSlot, bool) {
	slots, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return cloneSlots(slots), true
}

func (m *MemoryCache) Set(_ context.Context, key string, slots []models.TimeSlot) {
	m.lru.Add(key, cloneSlots(slots))
}

// InvalidateDate scans the keys, the cache being small.
func (m *MemoryCache) InvalidateDate(_ context.Context, date string) {
	for _, k := range m.lru.Keys() {
		if hasDate(k, date) {
			m.lru.Remove(k)
		}
	}
}

func cloneSlots(in []models.TimeSlot) []models.TimeSlot {
	out := make([]models.TimeSlot, len(in))
	copy(out, in)
	return out
}

var _ Cache = (*MemoryCache)(nil)
