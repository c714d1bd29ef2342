package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

const statsKey = "doctors:stats"

// DoctorStatsCache implements ports.DoctorStatsCache backed by Redis.
// Entries expire after ttl so a missed invalidation heals on its own.
type DoctorStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDoctorStatsCache creates a DoctorStatsCache wrapping the given Redis client.
func NewDoctorStatsCache(client *redis.Client, ttl time.Duration) *DoctorStatsCache {
	return &DoctorStatsCache{client: client, ttl: ttl}
}

// Get returns ok=false on a cache miss.
func (c *DoctorStatsCache) Get(ctx context.Context) (domain.DoctorStats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DoctorStats{}, false, nil
	}
	if err != nil {
		return domain.DoctorStats{}, false, fmt.Errorf("stats cache get: %w", err)
	}

	var stats domain.DoctorStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return domain.DoctorStats{}, false, fmt.Errorf("stats cache decode: %w", err)
	}
	return stats, true, nil
}

func (c *DoctorStatsCache) Set(ctx context.Context, stats domain.DoctorStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry; the next read recomputes it.
func (c *DoctorStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}
