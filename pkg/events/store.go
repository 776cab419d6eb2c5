package events

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Message is one data frame received from the pub/sub channel.
type Message struct {
	Channel string
	Payload string
}

// Subscription is a live pub/sub subscription. Messages yields data frames
// only; control frames such as the subscribe acknowledgement are consumed by
// the implementation. The channel is closed when the subscription ends.
type Subscription interface {
	Messages() <-chan Message
	Close() error
}

// Store is the pub/sub surface the broadcaster needs from the external store.
type Store interface {
	// Publish sends payload on channel and returns how many subscribers
	// were listening. Zero is a normal outcome, not an error.
	Publish(ctx context.Context, channel, payload string) (int64, error)
	// Subscribe opens a subscription on channel. The connection backing it
	// is reserved for the subscription until Close.
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore adapts a go-redis client to the Store interface.
func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Publish(ctx context.Context, channel, payload string) (int64, error) {
	return s.client.Publish(ctx, channel, payload).Result()
}

func (s *redisStore) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	ps := s.client.Subscribe(ctx, channel)
	// Wait for the subscribe acknowledgement so callers know the
	// subscription is established before any publish they trigger.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	return &redisSubscription{ps: ps}, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	once sync.Once
	out  chan Message
}

func (s *redisSubscription) Messages() <-chan Message {
	s.once.Do(func() {
		s.out = make(chan Message)
		src := s.ps.Channel()
		go func() {
			defer close(s.out)
			for m := range src {
				s.out <- Message{Channel: m.Channel, Payload: m.Payload}
			}
		}()
	})
	return s.out
}

func (s *redisSubscription) Close() error {
	return s.ps.Close()
}
