package window

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ecohubs/internal/ratelimit/models"
)

// fixedWindowScript increments the counter and starts the expiry on the first
// hit of a window. Returns {count, pttl}.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore implements fixed-window counting shared between processes.
// The key TTL equals the window.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Allow counts one request against key and reports whether it fits.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	res, err := fixedWindowScript.Run(ctx, s.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis fixed window: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("redis fixed window: unexpected reply length %d", len(res))
	}
	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond

	now := s.now()
	resetAt := now.Add(ttl)
	if count > limit {
		return denied(limit, resetAt, now), nil
	}
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the window for a key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
