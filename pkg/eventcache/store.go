package eventcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the key-value surface the cache manager needs from the external
// store. Implementations must map a missing key to ok=false rather than an
// error.
type Store interface {
	// Get returns the value stored at key, or ok=false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// SetEx atomically stores value at key with the given expiry.
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key and returns how many keys were removed (0 or 1).
	Delete(ctx context.Context, key string) (int64, error)
	// TTL returns the remaining expiry for key; ok=false when the key is
	// absent or carries no expiry.
	TTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)
}

type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore adapts a go-redis client to the Store interface.
func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.SetEx(ctx, key, value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) (int64, error) {
	return s.client.Del(ctx, key).Result()
}

func (s *redisStore) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}
	// go-redis reports -2 for a missing key and -1 for a key without expiry.
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}
