package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Leonardo062908/eventhub/pkg/eventsource"
)

// DefaultChannel is the pub/sub channel event updates are published on.
const DefaultChannel = "events:updates"

// Update is the broadcast payload for an event change. It is ephemeral:
// delivered to whoever is subscribed at publish time and never stored.
type Update struct {
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

// Received is one message delivered to a listener. Update is nil when the
// payload could not be decoded; Raw always carries the original bytes so
// malformed messages are surfaced rather than dropped.
type Received struct {
	Channel    string
	Update     *Update
	Raw        string
	ReceivedAt time.Time
}

// Handler processes one received broadcast message.
type Handler func(msg Received)

// Fetcher resolves an event record, typically through the read-through cache.
// It is satisfied by *eventcache.Manager.
type Fetcher interface {
	Fetch(ctx context.Context, eventID string, ttl time.Duration) (*eventsource.Event, bool, error)
}

// Broadcaster publishes event updates on a pub/sub channel and runs listener
// loops over it. Publishing is fire-and-forget: a message published with zero
// subscribers is lost, and late joiners never see earlier messages.
type Broadcaster struct {
	store   Store
	fetcher Fetcher
	channel string
	log     *slog.Logger
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithChannel overrides the pub/sub channel name.
func WithChannel(name string) Option {
	return func(b *Broadcaster) {
		if name != "" {
			b.channel = name
		}
	}
}

// NewBroadcaster wires a broadcaster to its store and event fetcher. A nil
// logger falls back to slog.Default.
func NewBroadcaster(store Store, fetcher Fetcher, log *slog.Logger, opts ...Option) (*Broadcaster, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if fetcher == nil {
		return nil, ErrFetcherNil
	}
	if log == nil {
		log = slog.Default()
	}
	b := &Broadcaster{store: store, fetcher: fetcher, channel: DefaultChannel, log: log}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Channel returns the pub/sub channel name.
func (b *Broadcaster) Channel() string {
	return b.channel
}

// Publish resolves the event through the fetcher (cache hit or miss, either
// is fine) and publishes an Update with a fresh timestamp. It returns the
// number of subscribers that received the message; zero subscribers is a
// success. An event unknown to the source returns ErrEventNotFound and no
// message is emitted.
func (b *Broadcaster) Publish(ctx context.Context, eventID string) (int64, error) {
	event, _, err := b.fetcher.Fetch(ctx, eventID, 0)
	if err != nil {
		return 0, err
	}
	if event == nil {
		return 0, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	update := Update{
		EventID:   event.EventID,
		Title:     event.Title,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return 0, fmt.Errorf("marshal update: %w", err)
	}

	receivers, err := b.store.Publish(ctx, b.channel, string(payload))
	if err != nil {
		return 0, fmt.Errorf("publish on %q: %w", b.channel, err)
	}

	b.log.InfoContext(ctx, "update published",
		slog.String("channel", b.channel),
		slog.String("event_id", event.EventID),
		slog.Int64("receivers", receivers))
	return receivers, nil
}

// Listen subscribes to the channel and invokes handle for every data frame
// until ctx is cancelled. Undecodable payloads reach the handler as a
// fallback Received with a nil Update and the raw bytes. The subscription is
// released on every exit path; close-time errors are logged, never returned.
func (b *Broadcaster) Listen(ctx context.Context, handle Handler) error {
	sub, err := b.store.Subscribe(ctx, b.channel)
	if err != nil {
		return fmt.Errorf("subscribe to %q: %w", b.channel, err)
	}
	defer func() {
		if err := sub.Close(); err != nil {
			b.log.Warn("closing subscription", slog.Any("error", err))
		}
	}()

	subscriberID := uuid.New()
	log := b.log.With(
		slog.String("subscriber_id", subscriberID.String()),
		slog.String("channel", b.channel))
	log.InfoContext(ctx, "subscribed, waiting for messages")

	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "listener stopping")
			return nil
		case msg, ok := <-sub.Messages():
			if !ok {
				if ctx.Err() != nil {
					log.InfoContext(ctx, "listener stopping")
					return nil
				}
				return ErrSubscriptionClosed
			}

			received := Received{
				Channel:    msg.Channel,
				Raw:        msg.Payload,
				ReceivedAt: time.Now().UTC(),
			}
			var update Update
			if err := json.Unmarshal([]byte(msg.Payload), &update); err == nil {
				received.Update = &update
			} else {
				log.WarnContext(ctx, "received payload that is not valid JSON",
					slog.String("payload", msg.Payload))
			}
			handle(received)
		}
	}
}
