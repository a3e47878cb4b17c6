package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter implements sliding window rate limiting using Redis.
// When Redis is disabled it falls back to an in-process token bucket
// so provider call budgets still hold for a single instance.
type RateLimiter struct {
	client *Client
	prefix string

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // Unique identifier (e.g., "marketdata", "news")
	Limit  int           // Maximum requests allowed
	Window time.Duration // Time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		local:  make(map[string]*rate.Limiter),
	}
}

// Allow checks if a request is allowed under the rate limit.
// Returns (allowed, remaining, error).
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return r.localLimiter(cfg).Allow(), 0, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()
	windowStart := now - cfg.Window.Milliseconds()

	// Lua script keeps remove/count/add atomic
	script := redis.NewScript(`
		local key = KEYS[1]
		local now = tonumber(ARGV[1])
		local window_start = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local window_ms = tonumber(ARGV[4])

		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		local count = redis.call('ZCARD', key)

		if count < limit then
			redis.call('ZADD', key, now, now)
			redis.call('PEXPIRE', key, window_ms)
			return {1, limit - count - 1}
		else
			return {0, 0}
		end
	`)

	result, err := script.Run(ctx, r.client.rdb, []string{key},
		now,
		windowStart,
		cfg.Limit,
		cfg.Window.Milliseconds(),
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	allowed := result[0].(int64) == 1
	remaining := int(result[1].(int64))

	return allowed, remaining, nil
}

// Wait blocks until a request is allowed or context is cancelled
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	if !r.client.Enabled() {
		return r.localLimiter(cfg).Wait(ctx)
	}

	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
			// Retry
		}
	}
}

// localLimiter returns the in-process fallback limiter for a config
func (r *RateLimiter) localLimiter(cfg RateLimitConfig) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lim, ok := r.local[cfg.Key]; ok {
		return lim
	}

	perSecond := float64(cfg.Limit) / cfg.Window.Seconds()
	lim := rate.NewLimiter(rate.Limit(perSecond), cfg.Limit)
	r.local[cfg.Key] = lim
	return lim
}

// Predefined rate limit configs for external APIs
var (
	// Primary market-data API: conservative 5 req/s
	MarketDataRateLimit = RateLimitConfig{
		Key:    "marketdata",
		Limit:  5,
		Window: time.Second,
	}

	// Fallback fundamentals scrape: 1 req/s to stay polite
	FallbackRateLimit = RateLimitConfig{
		Key:    "fallback",
		Limit:  1,
		Window: time.Second,
	}

	// News API: 60 req/min
	NewsRateLimit = RateLimitConfig{
		Key:    "news",
		Limit:  60,
		Window: time.Minute,
	}
)
