package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Leonardo062908/eventhub/pkg/eventcache"
	"github.com/Leonardo062908/eventhub/pkg/eventsource"
)

func runCache(args []string, log *slog.Logger) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: cache requires a subcommand: get, del")
		return 2
	}

	switch args[0] {
	case "get":
		return runCacheGet(args[1:], log)
	case "del":
		return runCacheDel(args[1:], log)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown cache subcommand %q\n", args[0])
		return 2
	}
}

func newCacheManager(client goredis.UniversalClient, log *slog.Logger) (*eventcache.Manager, error) {
	source := eventsource.NewStaticSource(eventsource.DefaultEvents()...)
	return eventcache.NewManager(eventcache.NewRedisStore(client), source, log)
}

func runCacheGet(args []string, log *slog.Logger) int {
	fs := flag.NewFlagSet("cache get", flag.ExitOnError)
	id := fs.String("id", "", "event ID (required)")
	ttl := fs.Int("ttl", int(eventcache.DefaultTTL/time.Second), "cache TTL in seconds")
	showTTL := fs.Bool("show-ttl", false, "include remaining TTL when served from cache")
	_ = fs.Parse(args)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "error: --id is required")
		return 2
	}

	ctx := context.Background()
	client, err := connect(ctx)
	if err != nil {
		return 1
	}
	defer client.Close()

	manager, err := newCacheManager(client, log)
	if err != nil {
		return fail(err)
	}

	event, hit, err := manager.Fetch(ctx, *id, time.Duration(*ttl)*time.Second)
	if err != nil {
		return fail(err)
	}

	if event == nil {
		printJSON(map[string]any{
			"event_id":  *id,
			"cache_hit": false,
			"found":     false,
			"message":   "event not found in source",
		})
		return 0
	}

	result := map[string]any{
		"event_id":  *id,
		"cache_hit": hit,
		"found":     true,
		"data":      event,
	}
	if hit && *showTTL {
		if remaining, ok, err := manager.RemainingTTL(ctx, *id); err != nil {
			return fail(err)
		} else if ok {
			result["remaining_ttl_seconds"] = int(remaining / time.Second)
		}
	}
	printJSON(result)
	return 0
}

func runCacheDel(args []string, log *slog.Logger) int {
	fs := flag.NewFlagSet("cache del", flag.ExitOnError)
	id := fs.String("id", "", "event ID (required)")
	_ = fs.Parse(args)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "error: --id is required")
		return 2
	}

	ctx := context.Background()
	client, err := connect(ctx)
	if err != nil {
		return 1
	}
	defer client.Close()

	manager, err := newCacheManager(client, log)
	if err != nil {
		return fail(err)
	}

	removed, err := manager.Evict(ctx, *id)
	if err != nil {
		return fail(err)
	}

	status := "not_found"
	if removed {
		status = "removed"
	}
	printJSON(map[string]any{
		"key":    eventcache.Key(*id),
		"status": status,
	})
	return 0
}
