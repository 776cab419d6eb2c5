package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultQueueKey is the list the queue operates on when no override is
// given.
const DefaultQueueKey = "notifications:queue"

// Notification is a single queued message. Timestamp is set at enqueue time
// in RFC 3339 UTC.
type Notification struct {
	User      string `json:"user"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Handler processes one popped notification together with its receipt time.
// The item is already removed from the queue when the handler runs, so
// handlers that may fail must be idempotent.
type Handler func(n Notification, receivedAt time.Time)

// Queue is a durable work queue backed by an external list: producers push
// to the head, a blocking worker pops from the tail, yielding FIFO delivery
// with at-least-once semantics.
type Queue struct {
	store Store
	key   string
	log   *slog.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithQueueKey overrides the backing list key.
func WithQueueKey(key string) Option {
	return func(q *Queue) {
		if key != "" {
			q.key = key
		}
	}
}

// NewQueue wires a notification queue to its store. A nil logger falls back
// to slog.Default.
func NewQueue(store Store, log *slog.Logger, opts ...Option) (*Queue, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if log == nil {
		log = slog.Default()
	}
	q := &Queue{store: store, key: DefaultQueueKey, log: log}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Key returns the backing list key.
func (q *Queue) Key() string {
	return q.key
}

// Enqueue pushes a notification for user with the given message and returns
// the queue length after the insert.
func (q *Queue) Enqueue(ctx context.Context, user, message string) (int64, error) {
	n := Notification{
		User:      user,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return 0, fmt.Errorf("marshal notification: %w", err)
	}

	size, err := q.store.LPush(ctx, q.key, string(payload))
	if err != nil {
		return 0, fmt.Errorf("push to %q: %w", q.key, err)
	}

	q.log.InfoContext(ctx, "notification enqueued",
		slog.String("queue", q.key),
		slog.String("user", user),
		slog.Int64("size", size))
	return size, nil
}

// EnqueueBatch reads newline-delimited JSON records from r and enqueues each
// valid one. Blank lines are skipped; lines that are not valid JSON or that
// lack a non-empty "user" or "message" field are reported as warnings and
// skipped without aborting the batch. It returns the number of notifications
// enqueued.
func (q *Queue) EnqueueBatch(ctx context.Context, r io.Reader) (int, error) {
	var count int

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec struct {
			User    string `json:"user"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			q.log.WarnContext(ctx, "skipping invalid JSON line",
				slog.Int("line", line),
				slog.String("content", text))
			continue
		}
		if rec.User == "" || rec.Message == "" {
			q.log.WarnContext(ctx, "skipping line without user/message fields",
				slog.Int("line", line),
				slog.String("content", text))
			continue
		}

		if _, err := q.Enqueue(ctx, rec.User, rec.Message); err != nil {
			return count, err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read batch input: %w", err)
	}
	return count, nil
}

// Drain pops notifications in a blocking loop and hands each to handle with
// its receipt time. A popped payload that fails to decode is reported and
// dropped; the loop keeps running. Drain returns nil once ctx is cancelled
// and an error only when the store itself fails. An item popped before
// cancellation is always handed to the handler first.
func (q *Queue) Drain(ctx context.Context, handle Handler) error {
	workerID := uuid.New()
	log := q.log.With(slog.String("worker_id", workerID.String()), slog.String("queue", q.key))
	log.InfoContext(ctx, "worker waiting for notifications")

	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "worker stopping")
			return nil
		default:
		}

		raw, err := q.store.BRPop(ctx, q.key)
		if err != nil {
			if ctx.Err() != nil {
				log.InfoContext(ctx, "worker stopping")
				return nil
			}
			return fmt.Errorf("pop from %q: %w", q.key, err)
		}

		receivedAt := time.Now().UTC()

		var n Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			log.WarnContext(ctx, "dropping payload that is not valid JSON",
				slog.String("payload", raw))
			continue
		}
		handle(n, receivedAt)
	}
}
