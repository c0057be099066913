package redis

import (
	"context"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// admitScript does the check-and-add in one round trip so the concurrency
// cap holds across gateway instances sharing the same Redis. Returns 0 for
// rejected, 1 for a new admission, 2 for an already registered client.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local client = ARGV[1]
local max = tonumber(ARGV[2])
if redis.call('SISMEMBER', key, client) == 1 then
  return 2
end
if redis.call('SCARD', key) >= max then
  return 0
end
redis.call('SADD', key, client)
return 1
`)

type RedisSessionRegistry struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionRegistry(client *redis.Client) ports.SessionRegistry {
	return &RedisSessionRegistry{
		client: client,
		prefix: "mediagate:sessions:",
	}
}

func (r *RedisSessionRegistry) userKey(userID domain.UserID) string {
	return r.prefix + string(userID)
}

func (r *RedisSessionRegistry) TryAdd(ctx context.Context, userID domain.UserID, clientID domain.ClientID, max int) (bool, bool, error) {
	res, err := admitScript.Run(ctx, r.client, []string{r.userKey(userID)}, string(clientID), max).Int()
	if err != nil {
		return false, false, fmt.Errorf("failed to run admission script: %w", err)
	}
	return res != 0, res == 1, nil
}

func (r *RedisSessionRegistry) Remove(ctx context.Context, userID domain.UserID, clientID domain.ClientID) (bool, error) {
	// Redis drops empty sets on its own, so no per-user cleanup is needed.
	removed, err := r.client.SRem(ctx, r.userKey(userID), string(clientID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to remove session member: %w", err)
	}
	return removed > 0, nil
}

func (r *RedisSessionRegistry) Count(ctx context.Context, userID domain.UserID) (int, error) {
	n, err := r.client.SCard(ctx, r.userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return int(n), nil
}
