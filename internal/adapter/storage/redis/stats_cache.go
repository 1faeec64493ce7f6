package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"momo-checkout-console/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// statsKey holds the single shared snapshot. One key, replaced wholesale;
// there is never a partial update.
const statsKey = "stats:latest"

// StatsCache implements ports.StatsCache using Redis, sharing the latest
// snapshot across console instances.
type StatsCache struct {
	client *goredis.Client
}

// NewStatsCache creates a Redis-backed stats cache.
func NewStatsCache(client *goredis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get retrieves the cached snapshot. Returns nil, nil when absent or
// expired.
func (c *StatsCache) Get(ctx context.Context) (*domain.StatsSnapshot, error) {
	val, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis stats get: %w", err)
	}

	var snap domain.StatsSnapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &snap, nil
}

// Set stores the snapshot with a TTL so a stopped poller cannot serve
// arbitrarily stale numbers forever.
func (c *StatsCache) Set(ctx context.Context, snap *domain.StatsSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis stats set: %w", err)
	}
	return nil
}
