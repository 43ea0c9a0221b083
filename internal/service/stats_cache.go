package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/event-registration-service/internal/analytics"
)

const statsKeyPrefix = "event:stats:"

// StatsCache is a Redis-backed read cache for computed capacity metrics.
// Entries are short-lived and invalidated on every register/unregister, so
// a cold cache only ever costs one event read.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache builds a cache over the given client. A nil client yields a
// cache that always misses.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func statsKey(eventID string) string {
	return statsKeyPrefix + eventID
}

// Get returns cached metrics or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, eventID string) (*analytics.CapacityMetrics, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, statsKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}
	var metrics analytics.CapacityMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &metrics, nil
}

// Set stores metrics under the cache TTL.
func (c *StatsCache) Set(ctx context.Context, eventID string, metrics analytics.CapacityMetrics) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, statsKey(eventID), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for an event.
func (c *StatsCache) Invalidate(ctx context.Context, eventID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, statsKey(eventID)).Err()
}
