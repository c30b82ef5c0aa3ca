package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisLimiter counts requests per client in fixed windows shared by every
// instance pointed at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	policy Policy
	now    func() time.Time
}

// NewRedisLimiter creates a limiter backed by client
func NewRedisLimiter(client *redis.Client, policy Policy) (*RedisLimiter, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &RedisLimiter{
		client: client,
		policy: policy,
		now:    time.Now,
	}, nil
}

// Allow increments the client's counter for the current window
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.windowKey(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	// The key is scoped to one window; the TTL only reclaims it afterwards.
	pipe.Expire(ctx, k, l.policy.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}

	return incr.Val() <= int64(l.policy.Max), nil
}

// windowKey names the counter for key in the window containing now
func (l *RedisLimiter) windowKey(key string) string {
	return keyPrefix + key + ":" + strconv.FormatInt(l.policy.windowIndex(l.now()), 10)
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
