package oddsapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/metrics"
)

// CacheKey identifies one odds listing.
type CacheKey struct {
	Sport   string
	Regions string
	Markets string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Sport, k.Regions, k.Markets)
}

// ResponseCache stores provider responses per query.
type ResponseCache interface {
	Get(ctx context.Context, key CacheKey) ([]arbitrage.RawEvent, bool)
	Set(ctx context.Context, key CacheKey, events []arbitrage.RawEvent) error
	Clear(ctx context.Context) error
}

// OddsCache keeps recent provider responses in memory to spare the request quota.
type OddsCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewOddsCache creates a new odds cache
func NewOddsCache(ttl time.Duration) *OddsCache {
	return &OddsCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves cached events
func (oc *OddsCache) Get(_ context.Context, key CacheKey) ([]arbitrage.RawEvent, bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	if result, found := oc.cache.Get(key.String()); found {
		if events, ok := result.([]arbitrage.RawEvent); ok {
			oc.hitCount++
			oc.updateMetrics()
			return events, true
		}
	}

	oc.missCount++
	oc.updateMetrics()
	return nil, false
}

// Set stores events in cache
func (oc *OddsCache) Set(_ context.Context, key CacheKey, events []arbitrage.RawEvent) error {
	oc.cache.Set(key.String(), events, oc.ttl)
	return nil
}

// Clear flushes the entire cache
func (oc *OddsCache) Clear(_ context.Context) error {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	oc.cache.Flush()
	oc.hitCount = 0
	oc.missCount = 0
	return nil
}

// Stats returns cache statistics
func (oc *OddsCache) Stats() (hits, misses uint64, ratio float64) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.stats()
}

func (oc *OddsCache) stats() (hits, misses uint64, ratio float64) {
	hits = oc.hitCount
	misses = oc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics; callers hold mu.
func (oc *OddsCache) updateMetrics() {
	_, _, ratio := oc.stats()
	metrics.UpdateOddsCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (oc *OddsCache) ItemCount() int {
	return oc.cache.ItemCount()
}
