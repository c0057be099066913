package redis

import (
	"context"
	"fmt"
	"time"

	"mediagate/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// incrScript starts a fresh window on first hit and stops incrementing once
// the count is over the limit, returning the current count and the window's
// remaining lifetime in milliseconds.
var incrScript = redis.NewScript(`
local key = KEYS[1]
local window = tonumber(ARGV[1])
local max = tonumber(ARGV[2])
local count = tonumber(redis.call('GET', key) or '0')
if count > max then
  return {count, redis.call('PTTL', key)}
end
count = redis.call('INCR', key)
if count == 1 then
  redis.call('PEXPIRE', key, window)
end
return {count, redis.call('PTTL', key)}
`)

type RedisRateLimitStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRateLimitStore(client *redis.Client) ports.RateLimitStore {
	return &RedisRateLimitStore{
		client: client,
		prefix: "mediagate:ratelimit:",
	}
}

func (r *RedisRateLimitStore) Incr(ctx context.Context, key string, window time.Duration, max int) (int, time.Time, error) {
	res, err := incrScript.Run(ctx, r.client, []string{r.prefix + key}, window.Milliseconds(), max).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected rate limit script result: %v", res)
	}

	count := int(res[0])
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return count, time.Now().Add(ttl), nil
}
