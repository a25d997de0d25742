package biz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestFeaturedCache_EmptySlotMisses(t *testing.T) {
	cache := NewFeaturedCache(DefaultFeaturedCacheTTL, nil)

	data, ok := cache.Get()
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestFeaturedCache_ServesFreshPayload(t *testing.T) {
	clock := newFakeClock()
	cache := NewFeaturedCache(5*time.Minute, clock.Now)

	payload := []*MediaAsset{{ID: "a"}, {ID: "b"}}
	cache.Set(payload)

	clock.Advance(4 * time.Minute)

	got, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestFeaturedCache_ExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewFeaturedCache(5*time.Minute, clock.Now)

	cache.Set([]*MediaAsset{{ID: "a"}})
	clock.Advance(5 * time.Minute)

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestFeaturedCache_InvalidateClearsSlot(t *testing.T) {
	clock := newFakeClock()
	cache := NewFeaturedCache(5*time.Minute, clock.Now)

	cache.Set([]*MediaAsset{{ID: "a"}})
	cache.Invalidate()

	_, ok := cache.Get()
	assert.False(t, ok)

	// Idempotent: a second invalidation is harmless.
	cache.Invalidate()
	_, ok = cache.Get()
	assert.False(t, ok)
}

func TestFeaturedCache_NilPayloadStillCounts(t *testing.T) {
	clock := newFakeClock()
	cache := NewFeaturedCache(5*time.Minute, clock.Now)

	// An empty featured listing is a valid cached result.
	cache.Set(nil)

	got, ok := cache.Get()
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestFeaturedCache_DefaultTTL(t *testing.T) {
	cache := NewFeaturedCache(0, nil)
	assert.Equal(t, DefaultFeaturedCacheTTL, cache.ttl)
}
