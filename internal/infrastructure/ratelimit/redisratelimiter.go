package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a sliding-window limiter shared by every process that
// points at the same Redis, so several digest runs using one API key draw
// from one provider budget.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

type window struct {
	duration time.Duration
	limit    int
}

func windowsFor(config RateLimitConfig) []window {
	var windows []window
	if config.RequestsPerMinute > 0 {
		windows = append(windows, window{time.Minute, config.RequestsPerMinute})
	}
	if config.RequestsPerDay > 0 {
		windows = append(windows, window{24 * time.Hour, config.RequestsPerDay})
	}
	return windows
}

// Allow reports whether one more request fits every window. A request is only
// recorded when it is allowed, so callers may poll without burning budget.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	now := time.Now()
	windows := windowsFor(config)

	for _, w := range windows {
		count, err := l.count(ctx, key, w.duration, now)
		if err != nil {
			return false, err
		}
		if count >= int64(w.limit) {
			return false, nil
		}
	}

	pipe := l.client.TxPipeline()
	member := strconv.FormatInt(now.UnixNano(), 10)
	for _, w := range windows {
		redisKey := l.getKey(key, w.duration)
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
		pipe.Expire(ctx, redisKey, w.duration+time.Minute)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record request: %w", err)
	}

	return true, nil
}

func (l *RedisRateLimiter) count(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	redisKey := l.getKey(key, window)
	windowStart := now.Add(-window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return zcard.Val(), nil
}

// Count returns the number of requests recorded in the window.
func (l *RedisRateLimiter) Count(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := l.count(ctx, key, window, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	pattern := fmt.Sprintf("ratelimit:%s:*", key)

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	return nil
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:%s:%s", identifier, window.String())
}
