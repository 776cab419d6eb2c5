// Package eventcache implements a read-through cache for event records backed
// by a Redis-style key-value store with per-entry expiry.
//
// Semantics:
//
//   - Fetch returns the cached record on a hit without touching the source.
//   - On a miss it queries the source of record, writes the serialized record
//     with SETEX semantics, and reports was-hit=false.
//   - A cached value that fails to deserialize is deleted and handled as a
//     miss (self-healing); the corrupted bytes are never returned.
//   - An ID unknown to the source is reported as absent and never cached.
//
// The Store interface is satisfied by NewRedisStore for production and by
// in-memory fakes in tests.
package eventcache
