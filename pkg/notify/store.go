package notify

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store is the list surface the queue needs from the external store.
type Store interface {
	// LPush inserts value at the head of the list and returns the new length.
	LPush(ctx context.Context, list, value string) (int64, error)
	// BRPop removes and returns the tail value of the list, blocking
	// indefinitely until one is available. Cancelling ctx unblocks the call.
	BRPop(ctx context.Context, list string) (string, error)
}

type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore adapts a go-redis client to the Store interface. A blocking
// pop reserves the connection's response stream, so the client passed here
// must not be shared with concurrently issued commands.
func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client}
}

func (s *redisStore) LPush(ctx context.Context, list, value string) (int64, error) {
	return s.client.LPush(ctx, list, value).Result()
}

func (s *redisStore) BRPop(ctx context.Context, list string) (string, error) {
	// Timeout 0 blocks until an item arrives; the reply is [list, value].
	res, err := s.client.BRPop(ctx, 0, list).Result()
	if err != nil {
		return "", err
	}
	return res[1], nil
}
