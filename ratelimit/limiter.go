// Package ratelimit throttles the public form posts.
package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	Limit      int
}

// Limiter decides whether identifier may perform one more request.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (*Result, error)
	Reset(ctx context.Context, identifier string) error
	Close() error
}

// Config holds rate limiter configuration.
type Config struct {
	Requests int           // Maximum requests per window
	Window   time.Duration // Time window size
}

// DefaultConfig allows five form posts per minute.
func DefaultConfig() Config {
	return Config{
		Requests: 5,
		Window:   time.Minute,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Requests <= 0 {
		c.Requests = def.Requests
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	return c
}
