// Package redis provides the connection bootstrap for the external Redis
// store: an env-driven Config, a Connect helper that retries until the server
// answers a ping, and a Healthcheck probe for long-lived loops.
//
// The package wraps github.com/redis/go-redis/v9 and returns the raw client;
// domain packages (eventcache, notify, events) define their own narrow store
// interfaces and adapt the client to them, so tests never need a live server.
//
// Usage:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // report and abort; the server is unreachable
//	}
//	defer client.Close()
//
// Sentinel errors (ErrNotReady, ErrInvalidConnectionURL) are joined with the
// underlying go-redis errors via errors.Join so callers can match either.
package redis
