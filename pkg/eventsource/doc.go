// Package eventsource defines the event record type and the source-of-record
// abstraction the cache reads through.
//
// The Source interface is deliberately tiny so the fixed in-memory table used
// by the demo can be swapped for a real database without touching any cache
// logic:
//
//	src := eventsource.NewStaticSource(eventsource.DefaultEvents()...)
//	event, ok := src.Lookup(ctx, "101")
package eventsource
