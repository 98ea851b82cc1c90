package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
	RetryIn   time.Duration
}

// RateLimiter provides sliding-window rate limiting using Redis sorted sets
type RateLimiter struct {
	client    *Client
	keyPrefix string
}

// slidingWindow returns {allowed, remaining[, oldest score]}.
var slidingWindow = goredis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call("zremrangebyscore", key, "-inf", window_start)

	local current = redis.call("zcard", key)

	if current < limit then
		redis.call("zadd", key, now, now .. "-" .. math.random())
		redis.call("pexpire", key, window_ms)
		return {1, limit - current - 1}
	end

	local oldest = redis.call("zrange", key, 0, 0, "WITHSCORES")
	if #oldest > 0 then
		return {0, 0, oldest[2]}
	end
	return {0, 0, 0}
`)

func NewRateLimiter(client *Client, keyPrefix string) *RateLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RateLimiter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Allow records one request for key and reports whether it fits in the window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	result, err := slidingWindow.Run(ctx, r.client.rdb, []string{r.keyPrefix + key},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		limit,
		window.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, err
	}

	return parseWindowResult(result, now, window)
}

// Reset resets the rate limit for a key
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.keyPrefix+key)
}

func parseWindowResult(result []interface{}, now time.Time, window time.Duration) (*RateLimitResult, error) {
	if len(result) < 2 {
		return nil, fmt.Errorf("unexpected rate limit reply %v", result)
	}

	allowedFlag, err := toInt64(result[0])
	if err != nil {
		return nil, err
	}
	remaining, err := toInt64(result[1])
	if err != nil {
		return nil, err
	}

	res := &RateLimitResult{
		Allowed:   allowedFlag == 1,
		Remaining: remaining,
		ResetAt:   now.Add(window),
	}

	if !res.Allowed && len(result) > 2 {
		oldestMs, err := toInt64(result[2])
		if err != nil {
			return nil, err
		}
		if oldestMs > 0 {
			res.RetryIn = time.UnixMilli(oldestMs).Add(window).Sub(now)
			res.ResetAt = now.Add(res.RetryIn)
		}
	}

	return res, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		// zrange WITHSCORES replies with strings
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(n, 64)
			if ferr != nil {
				return 0, err
			}
			return int64(f), nil
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}
