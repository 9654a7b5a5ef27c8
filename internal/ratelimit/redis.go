// File: internal/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowCounter is the key-value surface the Redis limiter relies on.
type windowCounter interface {
	// Incr increments key and returns the new count with the key's
	// remaining TTL. A negative TTL means the key has no expiry.
	Incr(ctx context.Context, key string) (int64, time.Duration, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Close() error
}

type redisCounter struct {
	client *redis.Client
}

func (c redisCounter) Incr(ctx context.Context, key string) (int64, time.Duration, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}

func (c redisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.PExpire(ctx, key, ttl).Err()
}

func (c redisCounter) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c redisCounter) Close() error {
	return c.client.Close()
}

// RedisRateLimiter shares fixed-window counters between server instances.
type RedisRateLimiter struct {
	counter windowCounter
	config  *Config
	prefix  string
	now     func() time.Time
}

var _ Limiter = (*RedisRateLimiter)(nil)

func NewRedisRateLimiter(client *redis.Client, config *Config, prefix string) *RedisRateLimiter {
	return newRedisRateLimiter(redisCounter{client: client}, config, prefix)
}

func newRedisRateLimiter(counter windowCounter, config *Config, prefix string) *RedisRateLimiter {
	return &RedisRateLimiter{counter: counter, config: config, prefix: prefix, now: time.Now}
}

func (rl *RedisRateLimiter) key(identifier string) string {
	return fmt.Sprintf("%s:%s", rl.prefix, identifier)
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, identifier string) (*RateLimitInfo, error) {
	key := rl.key(identifier)

	count, remaining, err := rl.counter.Incr(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("rate limit counter: %w", err)
	}

	// A fresh key has no expiry yet.
	if remaining < 0 {
		if err := rl.counter.Expire(ctx, key, rl.config.WindowSize); err != nil {
			return nil, fmt.Errorf("rate limit expiry: %w", err)
		}
		remaining = rl.config.WindowSize
	}

	info := &RateLimitInfo{
		Limit:     rl.config.MaxAttempts,
		ResetTime: rl.now().Add(remaining),
	}
	if int(count) > rl.config.MaxAttempts {
		info.RetryAfter = remaining
		return info, nil
	}
	info.Allowed = true
	info.Remaining = rl.config.MaxAttempts - int(count)
	return info, nil
}

func (rl *RedisRateLimiter) RecordSuccess(ctx context.Context, identifier string) error {
	return rl.counter.Del(ctx, rl.key(identifier))
}

func (rl *RedisRateLimiter) Close() error {
	return rl.counter.Close()
}
