package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oppscan/backend/pkg/config"
)

// Client is the shared Redis connection. A disabled client is still valid:
// the cache then always misses and rate limiting falls back to in-process
// limiters, so single-instance deployments can run without Redis.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New connects to Redis per config, or returns a disabled client
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Enabled reports whether a live connection is held
func (c *Client) Enabled() bool {
	return c.enabled
}

// Close releases the connection
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
