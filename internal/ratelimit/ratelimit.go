// Package ratelimit guards the mutating task RPCs with a per-user
// fixed-window counter in Redis. When no Redis is configured the
// limiter allows everything, so local setups work without one.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts actions per user inside a rolling window.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// New connects to Redis and returns a limiter allowing limit actions
// per window. An empty addr returns a pass-through limiter.
func New(addr, password string, db, limit int, window time.Duration) (*Limiter, error) {
	if addr == "" {
		return &Limiter{limit: limit, window: window}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Limiter{rdb: rdb, limit: limit, window: window}, nil
}

// Allow records one action and reports whether the caller is still
// within the window's budget.
func (l *Limiter) Allow(ctx context.Context, userID, action string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate:%s:%s", action, userID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}

	return count <= int64(l.limit), nil
}
