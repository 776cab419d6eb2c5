package eventsource

import "context"

// Event is a single record from the source of record. Events are immutable;
// the system only reads them.
type Event struct {
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	Location  string `json:"location"`
}

// Source is the authoritative dataset the cache sits in front of. Lookup
// reports whether an event with the given ID exists.
//
// Implementations must be safe for concurrent use.
type Source interface {
	Lookup(ctx context.Context, eventID string) (Event, bool)
}

// StaticSource serves a fixed in-memory table of events. It stands in for a
// real backing database and never changes after construction.
type StaticSource struct {
	events map[string]Event
}

// NewStaticSource builds a source from the given events, keyed by EventID.
// Later duplicates win.
func NewStaticSource(events ...Event) *StaticSource {
	m := make(map[string]Event, len(events))
	for _, e := range events {
		m[e.EventID] = e
	}
	return &StaticSource{events: m}
}

// Lookup returns the event for eventID if present.
func (s *StaticSource) Lookup(_ context.Context, eventID string) (Event, bool) {
	e, ok := s.events[eventID]
	return e, ok
}

// Len returns the number of events in the table.
func (s *StaticSource) Len() int {
	return len(s.events)
}

// DefaultEvents returns the seeded demo dataset.
func DefaultEvents() []Event {
	return []Event{
		{
			EventID:   "101",
			Title:     "Tech Summit",
			StartTime: "2025-11-20T10:00:00Z",
			Location:  "Pavilion 1",
		},
		{
			EventID:   "102",
			Title:     "DataConf",
			StartTime: "2025-12-05T14:00:00Z",
			Location:  "Central Auditorium",
		},
		{
			EventID:   "103",
			Title:     "Live Coding Night",
			StartTime: "2025-12-12T19:30:00Z",
			Location:  "Arena Dev",
		},
	}
}
