package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	window  int64
}

// MemoryLimiter grants each client Max requests per fixed window, with the
// same window boundaries as RedisLimiter. Each client gets a fresh bucket of
// Max tokens when a window opens. The bucket refills one token per Window,
// so it cannot refill before the next window replaces it.
type MemoryLimiter struct {
	policy   Policy
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewMemoryLimiter creates a limiter for policy
func NewMemoryLimiter(policy Policy) (*MemoryLimiter, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &MemoryLimiter{
		policy:   policy,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}, nil
}

// Allow consumes one request from the client's budget for the current window
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	window := l.policy.windowIndex(now)

	v, ok := l.visitors[key]
	if !ok || v.window != window {
		v = &visitor{
			limiter: rate.NewLimiter(rate.Every(l.policy.Window), l.policy.Max),
			window:  window,
		}
		l.visitors[key] = v
	}

	return v.limiter.AllowN(now, 1), nil
}

// Len returns the number of tracked clients
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// StartSweeper periodically forgets clients with no request in the current window
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go l.runSweeper(ctx, interval)
}

func (l *MemoryLimiter) runSweeper(ctx context.Context, interval time.Duration) {
	slog.Info("rate limit sweeper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit sweeper stopped")
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops visitors from past windows. Their next request would start a
// fresh budget anyway.
func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.policy.windowIndex(l.now())
	removed := 0
	for key, v := range l.visitors {
		if v.window < current {
			delete(l.visitors, key)
			removed++
		}
	}

	if removed > 0 {
		slog.Debug("rate limit visitors swept", "removed", removed, "remaining", len(l.visitors))
	}
}
