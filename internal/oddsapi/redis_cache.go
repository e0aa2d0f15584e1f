package oddsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/metrics"
)

const defaultRedisPrefix = "outclass:odds:"

// RedisCache shares provider responses between service instances.
//
// Key schema:
//
//	{prefix}{sport}:{regions}:{markets} - JSON array of events
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewRedisCache creates a RedisCache. An empty prefix uses "outclass:odds:".
func NewRedisCache(rdb *redis.Client, ttl time.Duration, prefix string) *RedisCache {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

func (rc *RedisCache) key(key CacheKey) string {
	return rc.prefix + key.String()
}

// Get retrieves cached events. Any redis failure is reported as a miss.
func (rc *RedisCache) Get(ctx context.Context, key CacheKey) ([]arbitrage.RawEvent, bool) {
	data, err := rc.rdb.Get(ctx, rc.key(key)).Bytes()
	if err != nil {
		rc.record(false)
		return nil, false
	}

	events, err := DecodeEvents(bytes.NewReader(data))
	if err != nil {
		rc.record(false)
		return nil, false
	}

	rc.record(true)
	return events, true
}

// Set stores events with the cache TTL.
func (rc *RedisCache) Set(ctx context.Context, key CacheKey, events []arbitrage.RawEvent) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("redis: marshal events %s: %w", key, err)
	}
	if err := rc.rdb.Set(ctx, rc.key(key), data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set events %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the cache prefix.
func (rc *RedisCache) Clear(ctx context.Context) error {
	iter := rc.rdb.Scan(ctx, 0, rc.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis: scan %s: %w", rc.prefix, err)
	}

	rc.mu.Lock()
	rc.hitCount = 0
	rc.missCount = 0
	rc.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}
	if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: delete %d keys: %w", len(keys), err)
	}
	return nil
}

// Close closes the underlying redis connection.
func (rc *RedisCache) Close() error {
	return rc.rdb.Close()
}

// Stats returns cache statistics for this instance.
func (rc *RedisCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	hits, misses = rc.hitCount, rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (rc *RedisCache) record(hit bool) {
	rc.mu.Lock()
	if hit {
		rc.hitCount++
	} else {
		rc.missCount++
	}
	hits, misses := rc.hitCount, rc.missCount
	rc.mu.Unlock()

	metrics.UpdateOddsCacheHitRatio(float64(hits) / float64(hits+misses))
}
