// Package notify implements a durable notification queue on top of an
// external list store (LPUSH/BRPOP).
//
// Producers call Enqueue or EnqueueBatch; a single worker runs Drain, which
// blocks on the tail of the list and invokes a handler per message. Delivery
// is at-least-once and single-pop: an item leaves the queue the moment it is
// popped, before the handler runs, so handlers must be idempotent. Within one
// producer, pop order matches enqueue order.
package notify
