package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Leonardo062908/eventhub/pkg/events"
	"github.com/Leonardo062908/eventhub/pkg/redis"
)

func runEvents(args []string, log *slog.Logger) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: events requires a subcommand: publish, subscribe")
		return 2
	}

	switch args[0] {
	case "publish":
		return runEventsPublish(args[1:], log)
	case "subscribe":
		return runEventsSubscribe(args[1:], log)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown events subcommand %q\n", args[0])
		return 2
	}
}

func runEventsPublish(args []string, log *slog.Logger) int {
	fs := flag.NewFlagSet("events publish", flag.ExitOnError)
	id := fs.String("id", "", "event ID to publish (required)")
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
	broadcaster, err := events.NewBroadcaster(events.NewRedisStore(client), manager, log)
	if err != nil {
		return fail(err)
	}

	receivers, err := broadcaster.Publish(ctx, *id)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			printJSON(map[string]any{
				"error": fmt.Sprintf("event %s not found", *id),
			})
			return 0
		}
		return fail(err)
	}

	printJSON(map[string]any{
		"status":    "published",
		"channel":   broadcaster.Channel(),
		"event_id":  *id,
		"receivers": receivers,
	})
	return 0
}

func runEventsSubscribe(args []string, log *slog.Logger) int {
	fs := flag.NewFlagSet("events subscribe", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The subscription reserves its connection for the pub/sub stream, so
	// the listener gets a client of its own.
	client, err := connect(ctx)
	if err != nil {
		return 1
	}
	defer client.Close()

	if err := redis.Healthcheck(client)(ctx); err != nil {
		return fail(err)
	}

	manager, err := newCacheManager(client, log)
	if err != nil {
		return fail(err)
	}
	broadcaster, err := events.NewBroadcaster(events.NewRedisStore(client), manager, log)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintf(os.Stderr, "[subscriber] listening on %q (Ctrl+C to exit)\n", broadcaster.Channel())

	err = broadcaster.Listen(ctx, func(msg events.Received) {
		var payload any = msg.Update
		if msg.Update == nil {
			payload = map[string]string{"raw": msg.Raw}
		}
		printJSON(map[string]any{
			"channel":     msg.Channel,
			"received_at": msg.ReceivedAt.Format(time.RFC3339),
			"message":     payload,
		})
	})
	if err != nil {
		return fail(err)
	}

	fmt.Fprintln(os.Stderr, "[subscriber] shutting down cleanly")
	return 0
}
