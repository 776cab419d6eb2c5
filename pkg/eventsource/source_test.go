package eventsource_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leonardo062908/eventhub/pkg/eventsource"
)

func TestStaticSource(t *testing.T) {
	t.Parallel()

	t.Run("looks up existing event", func(t *testing.T) {
		t.Parallel()

		src := eventsource.NewStaticSource(eventsource.Event{
			EventID:   "42",
			Title:     "GopherCon",
			StartTime: "2026-01-15T09:00:00Z",
			Location:  "Hall A",
		})

		event, ok := src.Lookup(context.Background(), "42")
		require.True(t, ok)
		assert.Equal(t, "GopherCon", event.Title)
		assert.Equal(t, "Hall A", event.Location)
	})

	t.Run("reports missing event", func(t *testing.T) {
		t.Parallel()

		src := eventsource.NewStaticSource()

		_, ok := src.Lookup(context.Background(), "missing")
		assert.False(t, ok)
	})

	t.Run("later duplicate wins", func(t *testing.T) {
		t.Parallel()

		src := eventsource.NewStaticSource(
			eventsource.Event{EventID: "1", Title: "old"},
			eventsource.Event{EventID: "1", Title: "new"},
		)

		event, ok := src.Lookup(context.Background(), "1")
		require.True(t, ok)
		assert.Equal(t, "new", event.Title)
		assert.Equal(t, 1, src.Len())
	})
}

func TestDefaultEvents(t *testing.T) {
	t.Parallel()

	events := eventsource.DefaultEvents()
	require.Len(t, events, 3)

	src := eventsource.NewStaticSource(events...)
	for _, id := range []string{"101", "102", "103"} {
		event, ok := src.Lookup(context.Background(), id)
		require.True(t, ok, "event %s should be seeded", id)
		assert.Equal(t, id, event.EventID)
		assert.NotEmpty(t, event.Title)
		assert.NotEmpty(t, event.StartTime)
		assert.NotEmpty(t, event.Location)
	}
}
