package oddsapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
)

func TestOddsCacheHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	cache := NewOddsCache(time.Minute)
	key := CacheKey{Sport: "soccer_epl", Regions: "us", Markets: "h2h"}

	_, found := cache.Get(ctx, key)
	assert.False(t, found)

	events := []arbitrage.RawEvent{{"id": "evt1"}}
	cache.Set(ctx, key, events)

	got, found := cache.Get(ctx, key)
	assert.True(t, found)
	assert.Equal(t, events, got)
	assert.Equal(t, 1, cache.ItemCount())

	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

func TestOddsCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewOddsCache(10 * time.Millisecond)
	key := CacheKey{Sport: "nba"}
	cache.Set(ctx, key, []arbitrage.RawEvent{{"id": "x"}})

	time.Sleep(30 * time.Millisecond)

	_, found := cache.Get(ctx, key)
	assert.False(t, found)
}

func TestOddsCacheClear(t *testing.T) {
	ctx := context.Background()
	cache := NewOddsCache(time.Minute)
	cache.Set(ctx, CacheKey{Sport: "nba"}, []arbitrage.RawEvent{{"id": "x"}})
	cache.Get(ctx, CacheKey{Sport: "nba"})

	require.NoError(t, cache.Clear(ctx))

	hits, misses, _ := cache.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, cache.ItemCount())
}

func TestCacheKeyString(t *testing.T) {
	assert.Equal(t, "soccer_epl:us,uk:h2h", CacheKey{Sport: "soccer_epl", Regions: "us,uk", Markets: "h2h"}.String())
}
