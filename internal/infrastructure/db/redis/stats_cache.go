package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sathvik89/task-manager-api/internal/api/metrics"
	"github.com/sathvik89/task-manager-api/internal/core/ports"
)

// StatsCache caches the per-owner stats aggregate in Redis.
// Key format: stats:<owner_id>
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache wraps the given Redis client. A non-positive ttl disables
// expiry-based caching and falls back to 30 seconds.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached aggregate, or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, ownerID string) (*ports.TaskStats, error) {
	raw, err := c.client.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var stats ports.TaskStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, ownerID string, stats *ports.TaskStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(ownerID), raw, c.ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}

func (c *StatsCache) key(ownerID string) string {
	return "stats:" + ownerID
}
