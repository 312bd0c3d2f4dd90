// Package ratelimit counts submissions per client in fixed Redis windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
)

const keyPrefix = "ratelimit:submissions:"

var _ secondary.RateLimiter = (*Limiter)(nil)

// Limiter implements secondary.RateLimiter with INCR + EXPIRE
type Limiter struct {
	redisClient *redis.Client
	logger      primary.Logger
	limit       int
	window      time.Duration
	now         func() time.Time
}

func NewLimiter(redisClient *redis.Client, cfg *config.RateLimitConfig, logger primary.Logger) *Limiter {
	return &Limiter{
		redisClient: redisClient,
		logger:      logger,
		limit:       cfg.Limit,
		window:      cfg.Window,
		now:         time.Now,
	}
}

// windowKey buckets key into the window containing now.
func windowKey(key string, now time.Time, window time.Duration) string {
	bucket := now.UnixNano() / int64(window)
	return fmt.Sprintf("%s%s:%d", keyPrefix, key, bucket)
}

// Allow counts one hit for key in the current window
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := windowKey(key, l.now(), l.window)

	pipe := l.redisClient.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count submission: %w", err)
	}

	count := incr.Val()
	if count > int64(l.limit) {
		l.logger.Debug("Rate limit exceeded", "key", key, "count", count, "limit", l.limit)
		return false, nil
	}
	return true, nil
}
