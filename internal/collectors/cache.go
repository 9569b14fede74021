package collectors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/speculor/internal/models"
)

// ObservationCache is an in-memory TTL cache for per-source observations.
// Keys include the calendar date so a long-lived process never serves
// yesterday's targets even with a generous TTL.
type ObservationCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	observation models.PriceTargetObservation
	storedAt    time.Time
}

// NewObservationCache creates a cache with the given TTL.
func NewObservationCache(ttl time.Duration) *ObservationCache {
	return &ObservationCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *ObservationCache) key(source, ticker string) string {
	return fmt.Sprintf("%s/%s/%s", source, ticker, c.now().UTC().Format("2006-01-02"))
}

// Get returns a cached observation if present and fresh.
func (c *ObservationCache) Get(source, ticker string) (models.PriceTargetObservation, bool) {
	c.mu.RLock()
	entry, ok := c.entries[c.key(source, ticker)]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) > c.ttl {
		return models.PriceTargetObservation{}, false
	}
	return entry.observation, true
}

// Put stores an observation. Failed observations are cached too, so a
// broken source is not hammered on every ticker pass.
func (c *ObservationCache) Put(obs models.PriceTargetObservation) {
	c.mu.Lock()
	c.entries[c.key(obs.Source, obs.Ticker)] = cacheEntry{observation: obs, storedAt: c.now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, fresh or stale.
func (c *ObservationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CachedCollector wraps a collector with the observation cache. A nil cache
// passes through.
type CachedCollector struct {
	inner Collector
	cache *ObservationCache
}

// WithCache wraps a collector so repeated same-day collections hit the
// cache instead of the source.
func WithCache(inner Collector, cache *ObservationCache) Collector {
	if cache == nil {
		return inner
	}
	return &CachedCollector{inner: inner, cache: cache}
}

// ID returns the wrapped collector's source identifier.
func (c *CachedCollector) ID() string { return c.inner.ID() }

// Collect serves from cache when fresh, otherwise delegates and stores.
func (c *CachedCollector) Collect(ctx context.Context, ticker string) models.PriceTargetObservation {
	if obs, ok := c.cache.Get(c.inner.ID(), ticker); ok {
		return obs
	}
	obs := c.inner.Collect(ctx, ticker)
	c.cache.Put(obs)
	return obs
}
