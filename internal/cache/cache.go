package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client. A missing key is reported as (nil, nil); every
// other failure is returned so callers can fail closed.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns the value, or nil if the key is missing.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Set stores value with TTL.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key and reports whether it existed.
func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
