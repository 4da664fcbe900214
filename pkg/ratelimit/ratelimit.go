// Package ratelimit implements a fixed-window request counter backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter increments the hit count for key within the current window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter stores counters as expiring Redis keys.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter constructs a RedisCounter.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr implements Counter. The key expires one window after its first hit.
func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return count, nil
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits at most limit requests per key per window.
type Limiter struct {
	counter Counter
	limit   int
	window  time.Duration
	prefix  string
	now     func() time.Time
}

// New constructs a Limiter.
func New(counter Counter, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{counter: counter, limit: limit, window: window, prefix: "ratelimit", now: time.Now}
}

// Allow records a hit for key. Counter failures admit the request and are returned for logging.
func (l *Limiter) Allow(ctx context.Context, scope, key string) (Decision, error) {
	now := l.now()
	bucket := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%s:%d", l.prefix, scope, key, bucket)

	count, err := l.counter.Incr(ctx, redisKey, l.window)
	if err != nil {
		return Decision{Allowed: true, Remaining: l.limit}, err
	}

	remaining := l.limit - int(count)
	if remaining >= 0 {
		return Decision{Allowed: true, Remaining: remaining}, nil
	}

	windowEnd := time.Unix(0, (bucket+1)*int64(l.window))
	return Decision{Allowed: false, Remaining: 0, RetryAfter: windowEnd.Sub(now)}, nil
}

// Limit returns the configured budget per window.
func (l *Limiter) Limit() int {
	return l.limit
}
