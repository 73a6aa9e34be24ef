// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and consumes one token atomically.
// KEYS[1] = bucket key
// ARGV[1] = refill rate (tokens per second)
// ARGV[2] = capacity
// ARGV[3] = current unix time in seconds (fractional)
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local state = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if not tokens or not last_refill then
    tokens = capacity
    last_refill = now
end

local elapsed = now - last_refill
if elapsed > 0 then
    tokens = math.min(capacity, tokens + elapsed * rate)
    last_refill = now
end

local allowed = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
end

redis.call("HSET", key, "tokens", tokens, "last_refill", last_refill)
redis.call("EXPIRE", key, 120)

return allowed
`)

// RedisLimiter shares token buckets between server instances through Redis
type RedisLimiter struct {
	client    *redis.Client
	perMinute int
	prefix    string
	now       func() time.Time
}

func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		perMinute: perMinute,
		prefix:    "polls:ratelimit:",
		now:       time.Now,
	}
}

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.perMinute <= 0 {
		return true, nil
	}

	refill := float64(l.perMinute) / 60.0
	now := float64(l.now().UnixMicro()) / 1e6

	res, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + key}, refill, l.perMinute, now).Int64()
	if err != nil {
		return false, fmt.Errorf("redis limiter error: %w", err)
	}
	if res != 0 && res != 1 {
		return false, errors.New("invalid response from limiter script")
	}

	return res == 1, nil
}
