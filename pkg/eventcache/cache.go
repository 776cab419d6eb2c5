package eventcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Leonardo062908/eventhub/pkg/eventsource"
)

// DefaultTTL is the cache entry expiry used when the caller does not supply
// one.
const DefaultTTL = 60 * time.Second

// Manager is a read-through cache over an event source. On a miss it looks
// the event up in the source and writes the serialized record back to the
// store with an expiry; on a hit it returns the cached copy. A cached value
// that fails to deserialize is deleted and treated as a miss, so a corrupted
// entry is never returned.
type Manager struct {
	store  Store
	source eventsource.Source
	log    *slog.Logger
}

// NewManager wires a cache manager to its store and source of record.
// A nil logger falls back to slog.Default.
func NewManager(store Store, source eventsource.Source, log *slog.Logger) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if source == nil {
		return nil, ErrSourceNil
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, source: source, log: log}, nil
}

// Key returns the cache key for an event ID.
func Key(eventID string) string {
	return "event:" + eventID
}

// Fetch resolves an event through the cache. The second return value reports
// whether the record came from a live cache entry. A ttl of zero or below
// selects DefaultTTL. An event absent from the source returns (nil, false,
// nil) and writes nothing: absence is never cached.
func (m *Manager) Fetch(ctx context.Context, eventID string, ttl time.Duration) (*eventsource.Event, bool, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := Key(eventID)

	cached, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	if ok {
		var event eventsource.Event
		if err := json.Unmarshal([]byte(cached), &event); err == nil {
			m.log.InfoContext(ctx, "cache hit", slog.String("key", key))
			return &event, true, nil
		}
		// Corrupted entry: drop it and fall through to the miss path.
		m.log.WarnContext(ctx, "cache entry is not valid JSON, deleting", slog.String("key", key))
		if _, err := m.store.Delete(ctx, key); err != nil {
			return nil, false, fmt.Errorf("cache delete corrupted %q: %w", key, err)
		}
	}

	m.log.InfoContext(ctx, "cache miss, querying source", slog.String("key", key))
	event, found := m.source.Lookup(ctx, eventID)
	if !found {
		m.log.WarnContext(ctx, "event not found in source", slog.String("event_id", eventID))
		return nil, false, nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, false, fmt.Errorf("marshal event %q: %w", eventID, err)
	}
	if err := m.store.SetEx(ctx, key, string(payload), ttl); err != nil {
		return nil, false, fmt.Errorf("cache set %q: %w", key, err)
	}
	return &event, false, nil
}

// Evict removes the cache entry for an event. It reports whether a key was
// actually removed and is safe to call for keys that do not exist.
func (m *Manager) Evict(ctx context.Context, eventID string) (bool, error) {
	key := Key(eventID)
	removed, err := m.store.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cache delete %q: %w", key, err)
	}
	return removed > 0, nil
}

// RemainingTTL exposes the store's remaining-expiry query for the event's
// cache entry. ok is false when the key is absent or has no expiry.
func (m *Manager) RemainingTTL(ctx context.Context, eventID string) (time.Duration, bool, error) {
	key := Key(eventID)
	ttl, ok, err := m.store.TTL(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("cache ttl %q: %w", key, err)
	}
	return ttl, ok, nil
}
