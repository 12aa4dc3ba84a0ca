// Package ratelimit implements the per-user message quota on Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result reports one quota check.
type Result struct {
	Allowed    bool
	Limit      int
	Used       int
	ResetAfter time.Time
}

// Limiter is a fixed-window counter keyed per user. A nil *Limiter allows
// everything, so callers need no Redis guard of their own.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewLimiter returns nil when rdb is nil or the limit is non-positive;
// rate limiting is then disabled.
func NewLimiter(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	if rdb == nil || limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

// Allow counts one attempt for key and reports whether it fits the window.
// Redis failures allow the request; the quota is protection, not a
// dependency.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l == nil {
		return Result{Allowed: true}, nil
	}

	windowStart := time.Now().Truncate(l.window)
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, windowStart.Unix())

	used, err := l.rdb.Incr(ctx, bucket).Result()
	if err != nil {
		return Result{Allowed: true, Limit: l.limit}, err
	}
	if used == 1 {
		l.rdb.Expire(ctx, bucket, l.window)
	}

	return Result{
		Allowed:    used <= int64(l.limit),
		Limit:      l.limit,
		Used:       int(used),
		ResetAfter: windowStart.Add(l.window),
	}, nil
}
