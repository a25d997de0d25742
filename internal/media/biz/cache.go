package biz

import (
	"sync"
	"time"
)

// DefaultFeaturedCacheTTL is the freshness window of the featured listing.
const DefaultFeaturedCacheTTL = 5 * time.Minute

// FeaturedCache is a single-slot read-through cache over the featured
// listing. Any mutation that can change featured visibility clears the slot;
// the next read recomputes from the catalog. The cache is valid within one
// process only and is owned by the orchestrator instance, with an injectable
// clock for deterministic tests.
type FeaturedCache struct {
	mu        sync.Mutex
	data      []*MediaAsset
	timestamp time.Time
	ttl       time.Duration
	clock     func() time.Time
}

// NewFeaturedCache creates an empty cache. A non-positive ttl falls back to
// DefaultFeaturedCacheTTL; a nil clock falls back to time.Now.
func NewFeaturedCache(ttl time.Duration, clock func() time.Time) *FeaturedCache {
	if ttl <= 0 {
		ttl = DefaultFeaturedCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &FeaturedCache{
		ttl:   ttl,
		clock: clock,
	}
}

// Get returns the cached payload if the slot is populated and fresh.
func (c *FeaturedCache) Get() ([]*MediaAsset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil {
		return nil, false
	}
	if c.clock().Sub(c.timestamp) >= c.ttl {
		return nil, false
	}
	return c.data, true
}

// Set repopulates the slot with a freshly computed payload.
func (c *FeaturedCache) Set(data []*MediaAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data == nil {
		data = []*MediaAsset{}
	}
	c.data = data
	c.timestamp = c.clock()
}

// Invalidate clears the slot. Invalidation is idempotent, so concurrent
// invalidations are benign.
func (c *FeaturedCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = nil
	c.timestamp = time.Time{}
}
