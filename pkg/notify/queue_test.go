package notify_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leonardo062908/eventhub/pkg/logger"
	"github.com/Leonardo062908/eventhub/pkg/notify"
)

// fakeStore is an in-memory list store. LPush inserts at the head, BRPop
// blocks until a tail item is available or ctx is cancelled.
type fakeStore struct {
	mu    sync.Mutex
	items []string
}

func (s *fakeStore) LPush(_ context.Context, _ string, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]string{value}, s.items...)
	return int64(len(s.items)), nil
}

func (s *fakeStore) BRPop(ctx context.Context, _ string) (string, error) {
	for {
		s.mu.Lock()
		if n := len(s.items); n > 0 {
			v := s.items[n-1]
			s.items = s.items[:n-1]
			s.mu.Unlock()
			return v, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func TestQueueEnqueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &fakeStore{}
	q, err := notify.NewQueue(store, nil)
	require.NoError(t, err)

	size, err := q.Enqueue(ctx, "leo", "tickets released")
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)

	size, err = q.Enqueue(ctx, "ana", "gates open at 9")
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}

func TestQueueDrainOrdering(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	q, err := notify.NewQueue(store, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, msg := range []string{"A", "B", "C"} {
		_, err := q.Enqueue(ctx, "leo", msg)
		require.NoError(t, err)
	}

	got := make(chan notify.Notification, 3)
	done := make(chan error, 1)
	go func() {
		done <- q.Drain(ctx, func(n notify.Notification, receivedAt time.Time) {
			assert.False(t, receivedAt.IsZero())
			got <- n
		})
	}()

	var messages []string
	for i := 0; i < 3; i++ {
		select {
		case n := <-got:
			messages = append(messages, n.Message)
			assert.Equal(t, "leo", n.User)
			_, err := time.Parse(time.RFC3339, n.Timestamp)
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notification")
		}
	}
	assert.Equal(t, []string{"A", "B", "C"}, messages)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean exit")
	case <-time.After(2 * time.Second):
		t.Fatal("drain did not stop on cancellation")
	}
}

func TestQueueDrainSkipsMalformedPayload(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	var logBuf bytes.Buffer
	log := logger.New(logger.WithOutput(&logBuf))

	q, err := notify.NewQueue(store, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = store.LPush(ctx, q.Key(), "this is not json")
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "leo", "still alive")
	require.NoError(t, err)

	got := make(chan notify.Notification, 1)
	done := make(chan error, 1)
	go func() {
		done <- q.Drain(ctx, func(n notify.Notification, _ time.Time) {
			got <- n
		})
	}()

	select {
	case n := <-got:
		assert.Equal(t, "still alive", n.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the malformed payload")
	}
	assert.Contains(t, logBuf.String(), "not valid JSON")

	cancel()
	require.NoError(t, <-done)
}

func TestQueueEnqueueBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("partial success", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		var logBuf bytes.Buffer
		log := logger.New(logger.WithOutput(&logBuf))

		q, err := notify.NewQueue(store, log)
		require.NoError(t, err)

		input := strings.Join([]string{
			`{"user":"leo","message":"one"}`,
			`{"user":"ana","message":"two"}`,
			`{broken json`,
			`{"user":"bia"}`,
			`{"user":"caio","message":"three"}`,
		}, "\n")

		count, err := q.EnqueueBatch(ctx, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		warnings := strings.Count(logBuf.String(), "skipping")
		assert.Equal(t, 2, warnings)
	})

	t.Run("blank lines are ignored", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		q, err := notify.NewQueue(store, nil)
		require.NoError(t, err)

		input := "\n\n" + `{"user":"leo","message":"only"}` + "\n\n"
		count, err := q.EnqueueBatch(ctx, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("empty field values are skipped", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		q, err := notify.NewQueue(store, nil)
		require.NoError(t, err)

		input := `{"user":"","message":"no sender"}`
		count, err := q.EnqueueBatch(ctx, strings.NewReader(input))
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestNewQueue(t *testing.T) {
	t.Parallel()

	_, err := notify.NewQueue(nil, nil)
	assert.ErrorIs(t, err, notify.ErrStoreNil)

	q, err := notify.NewQueue(&fakeStore{}, nil, notify.WithQueueKey("custom:queue"))
	require.NoError(t, err)
	assert.Equal(t, "custom:queue", q.Key())
}
