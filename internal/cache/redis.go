// Package cache provides a Redis-backed apply url cache, an alternative to
// the sql table in internal/repository.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "jobs:url:"

// Redis stores apply urls as plain string keys without expiry.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis at the given URL (redis://host:6379/0).
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

// Upsert stores url for id, overwriting any previous value.
func (c *Redis) Upsert(ctx context.Context, id, url string) error {
	if err := c.client.Set(ctx, keyPrefix+id, url, 0).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", id, err)
	}
	return nil
}

// Get returns the url cached for id. ok is false on a miss.
func (c *Redis) Get(ctx context.Context, id string) (string, bool, error) {
	url, err := c.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache: get %s: %w", id, err)
	}
	return url, true, nil
}

// Close closes the Redis connection.
func (c *Redis) Close() error {
	return c.client.Close()
}
