package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "imex:ratelimit:"

// RedisLimiter is a fixed-window limiter shared by every site instance.
type RedisLimiter struct {
	client *redis.Client
	config Config
}

// NewRedisLimiter connects to Redis and verifies connectivity.
func NewRedisLimiter(ctx context.Context, opts *redis.Options, cfg Config) (*RedisLimiter, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisLimiterFromClient(client, cfg), nil
}

func NewRedisLimiterFromClient(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{client: client, config: cfg.normalized()}
}

// Allow increments the counter of the current window. A counter without an
// expiry starts a new window; this avoids EXPIRE NX, which needs Redis 7.
func (l *RedisLimiter) Allow(ctx context.Context, identifier string) (*Result, error) {
	key := keyPrefix + identifier

	hits, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	retryAfter, err := l.client.PTTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if retryAfter < 0 {
		if err := l.client.PExpire(ctx, key, l.config.Window).Err(); err != nil {
			return nil, fmt.Errorf("rate limit expiry failed: %w", err)
		}
		retryAfter = l.config.Window
	}

	count := int(hits)
	if count > l.config.Requests {
		return &Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: retryAfter,
			Limit:      l.config.Requests,
		}, nil
	}
	return &Result{
		Allowed:   true,
		Remaining: l.config.Requests - count,
		Limit:     l.config.Requests,
	}, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, identifier string) error {
	if err := l.client.Del(ctx, keyPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("rate limit reset failed: %w", err)
	}
	return nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// Ping checks if Redis is healthy.
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
