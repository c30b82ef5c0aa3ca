package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidLimit is returned when a limiter is built with a non-positive budget
var ErrInvalidLimit = errors.New("rate limit must allow at least one request per window")

// Limiter decides whether a client identified by key may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Policy is a fixed request budget per client per window
type Policy struct {
	Max    int
	Window time.Duration
}

// Validate checks the policy values
func (p Policy) Validate() error {
	if p.Max < 1 || p.Window <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

// windowIndex numbers the fixed window containing t. Windows are aligned to
// the Unix epoch so every backend and instance agrees on the boundaries.
func (p Policy) windowIndex(t time.Time) int64 {
	return t.UnixNano() / int64(p.Window)
}
