package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter implements the fixed-window rate counter on Redis.
// INCR is atomic, so concurrent requests against a fresh window are
// linearized by the server: exactly one of them observes count == 1 and
// fixes the window expiry.
type Counter struct {
	client *redis.Client
}

// NewCounter creates a Counter wrapping the given Redis client.
func NewCounter(client *redis.Client) *Counter {
	return &Counter{client: client}
}

// Incr increments the counter for key and returns the new count together
// with the window's reset time.
func (c *Counter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate counter incr: %w", err)
	}

	if count == 1 {
		// First hit of a new window fixes its expiry.
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("rate counter expire: %w", err)
		}
		return count, time.Now().Add(window), nil
	}

	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		// Unknown TTL: report a full window rather than failing the check.
		ttl = window
	}
	return count, time.Now().Add(ttl), nil
}
