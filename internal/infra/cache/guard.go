// Package cache holds the Redis-backed duplicate submission guard.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "leads:seen:"

// SubmissionGuard remembers submission fingerprints for a window so a
// double-clicked form does not create two follow-up tasks.
type SubmissionGuard struct {
	rdb    redis.Cmdable
	window time.Duration
}

func NewSubmissionGuard(rdb redis.Cmdable, window time.Duration) *SubmissionGuard {
	return &SubmissionGuard{rdb: rdb, window: window}
}

// NewRedisClient parses a redis:// URL and verifies the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// IsNew reports true the first time a fingerprint is seen within the window.
func (g *SubmissionGuard) IsNew(ctx context.Context, fingerprint string) (bool, error) {
	set, err := g.rdb.SetNX(ctx, keyPrefix+fingerprint, 1, g.window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}
	return set, nil
}

func (g *SubmissionGuard) Forget(ctx context.Context, fingerprint string) error {
	if err := g.rdb.Del(ctx, keyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("dedup DEL: %w", err)
	}
	return nil
}
