// Package cache keeps computed pipeline analytics in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/ligue-leads/internal/analytics"
)

const (
	versionKey   = "leads:analytics:version"
	metricsKeyFm = "leads:analytics:v%d"
)

// AnalyticsCache stores one metrics document per data version. Invalidate
// bumps the version, so readers move to a key no stale writer can reach.
type AnalyticsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewAnalyticsCache(client *redis.Client, ttl time.Duration) *AnalyticsCache {
	return &AnalyticsCache{Client: client, TTL: ttl}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (c *AnalyticsCache) Version(ctx context.Context) (int64, error) {
	v, err := c.Client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get returns nil, nil on a miss.
func (c *AnalyticsCache) Get(ctx context.Context, version int64) (*analytics.Metrics, error) {
	raw, err := c.Client.Get(ctx, metricsKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var m analytics.Metrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode cached analytics: %w", err)
	}
	return &m, nil
}

func (c *AnalyticsCache) Set(ctx context.Context, version int64, m analytics.Metrics) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, metricsKey(version), raw, c.TTL).Err()
}

func (c *AnalyticsCache) Invalidate(ctx context.Context) error {
	return c.Client.Incr(ctx, versionKey).Err()
}

func (c *AnalyticsCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func metricsKey(version int64) string {
	return fmt.Sprintf(metricsKeyFm, version)
}
