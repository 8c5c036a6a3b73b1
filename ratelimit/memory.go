package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a fixed-window limiter kept in process memory. It backs
// the site when Redis is not configured.
type MemoryLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window

	done chan struct{}
	wg   sync.WaitGroup
}

type window struct {
	start time.Time
	count int
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	m := &MemoryLimiter{
		config:  cfg.normalized(),
		now:     time.Now,
		windows: make(map[string]*window),
		done:    make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

func (m *MemoryLimiter) Allow(ctx context.Context, identifier string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[identifier]
	if !ok || now.Sub(w.start) >= m.config.Window {
		w = &window{start: now}
		m.windows[identifier] = w
	}

	if w.count >= m.config.Requests {
		return &Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: w.start.Add(m.config.Window).Sub(now),
			Limit:      m.config.Requests,
		}, nil
	}

	w.count++
	return &Result{
		Allowed:   true,
		Remaining: m.config.Requests - w.count,
		Limit:     m.config.Requests,
	}, nil
}

func (m *MemoryLimiter) Reset(ctx context.Context, identifier string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.windows, identifier)
	m.mu.Unlock()
	return nil
}

func (m *MemoryLimiter) Close() error {
	close(m.done)
	m.wg.Wait()
	return nil
}

func (m *MemoryLimiter) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Window)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup drops windows that have ended.
func (m *MemoryLimiter) cleanup() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, w := range m.windows {
		if now.Sub(w.start) >= m.config.Window {
			delete(m.windows, key)
		}
	}
}
