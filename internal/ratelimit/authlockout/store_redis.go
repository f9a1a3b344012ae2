package authlockout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "authlockout:"

// RedisStore keeps failure counters in Redis so the lockout survives
// restarts and is shared across replicas.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	rkey := keyPrefix + key
	count, err := s.client.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, fmt.Errorf("incr lockout counter: %w", err)
	}
	// The window starts at the first failure; later failures do not
	// extend it.
	if count == 1 {
		if err := s.client.Expire(ctx, rkey, window).Err(); err != nil {
			return int(count), fmt.Errorf("set lockout expiry: %w", err)
		}
	}
	return int(count), nil
}

func (s *RedisStore) Count(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, keyPrefix+key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get lockout counter: %w", err)
	}
	return count, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset lockout counter: %w", err)
	}
	return nil
}
