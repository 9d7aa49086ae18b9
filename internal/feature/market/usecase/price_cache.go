package usecase

import (
	"sync"
	"time"

	"papertrade_backend/internal/feature/market/domain/entity"
)

// PriceCache is the single-slot snapshot cache owned by SnapshotUsecase.
// A refresh replaces entries and timestamp together; readers never observe
// a partially written snapshot.
type PriceCache struct {
	mu         sync.RWMutex
	entries    entity.Snapshot
	capturedAt time.Time
	stored     bool
}

// NewPriceCache returns an empty cache.
func NewPriceCache() *PriceCache {
	return &PriceCache{}
}

// Store swaps in a new snapshot captured at the given time.
func (c *PriceCache) Store(entries entity.Snapshot, capturedAt time.Time) {
	cp := entries.Clone()
	if cp == nil {
		cp = entity.Snapshot{}
	}
	c.mu.Lock()
	c.entries = cp
	c.capturedAt = capturedAt
	c.stored = true
	c.mu.Unlock()
}

// Fresh returns a copy of the cached snapshot when its age at now is below ttl.
func (c *PriceCache) Fresh(now time.Time, ttl time.Duration) (entity.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.stored || now.Sub(c.capturedAt) >= ttl {
		return nil, false
	}
	return c.entries.Clone(), true
}

// Load returns a copy of the cached snapshot regardless of its age.
func (c *PriceCache) Load() (entity.CachedSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.stored {
		return entity.CachedSnapshot{}, false
	}
	return entity.CachedSnapshot{Entries: c.entries.Clone(), CapturedAt: c.capturedAt}, true
}
