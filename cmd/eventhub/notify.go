package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Leonardo062908/eventhub/pkg/notify"
	"github.com/Leonardo062908/eventhub/pkg/redis"
)

func runNotify(args []string, log *slog.Logger) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: notify requires a subcommand: enqueue, enqueue-batch, worker")
		return 2
	}

	switch args[0] {
	case "enqueue":
		return runNotifyEnqueue(args[1:], log)
	case "enqueue-batch":
		return runNotifyEnqueueBatch(args[1:], log)
	case "worker":
		return runNotifyWorker(args[1:], log)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown notify subcommand %q\n", args[0])
		return 2
	}
}

func runNotifyEnqueue(args []string, log *slog.Logger) int {
	fs := flag.NewFlagSet("notify enqueue", flag.ExitOnError)
	user := fs.String("user", "", "user the notification is for (required)")
	message := fs.String("message", "", "notification text (required)")
	_ = fs.Parse(args)

	if *user == "" || *message == "" {
		fmt.Fprintln(os.Stderr, "error: --user and --message are required")
		return 2
	}

	ctx := context.Background()
	client, err := connect(ctx)
	if err != nil {
		return 1
	}
	defer client.Close()

	queue, err := notify.NewQueue(notify.NewRedisStore(client), log)
	if err != nil {
		return fail(err)
	}

	size, err := queue.Enqueue(ctx, *user, *message)
	if err != nil {
		return fail(err)
	}

	printJSON(map[string]any{
		"status": "enqueued",
		"queue":  queue.Key(),
		"size":   size,
	})
	return 0
}

func runNotifyEnqueueBatch(args []string, log *slog.Logger) int {
	fs := flag.NewFlagSet("notify enqueue-batch", flag.ExitOnError)
	file := fs.String("file", "", "path to a JSON Lines file (required)")
	_ = fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "error: --file is required")
		return 2
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	ctx := context.Background()
	client, err := connect(ctx)
	if err != nil {
		return 1
	}
	defer client.Close()

	queue, err := notify.NewQueue(notify.NewRedisStore(client), log)
	if err != nil {
		return fail(err)
	}

	count, err := queue.EnqueueBatch(ctx, f)
	if err != nil {
		return fail(err)
	}

	printJSON(map[string]any{
		"status": "batch-enqueued",
		"queue":  queue.Key(),
		"count":  count,
	})
	return 0
}

func runNotifyWorker(args []string, log *slog.Logger) int {
	fs := flag.NewFlagSet("notify worker", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The blocking pop reserves its connection, so the worker gets a client
	// of its own that nothing else uses.
	client, err := connect(ctx)
	if err != nil {
		return 1
	}
	defer client.Close()

	if err := redis.Healthcheck(client)(ctx); err != nil {
		return fail(err)
	}

	queue, err := notify.NewQueue(notify.NewRedisStore(client), log)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintf(os.Stderr, "[worker] waiting for notifications on %q (Ctrl+C to exit)\n", queue.Key())

	err = queue.Drain(ctx, func(n notify.Notification, receivedAt time.Time) {
		printJSON(map[string]any{
			"queue":        queue.Key(),
			"received_at":  receivedAt.Format(time.RFC3339),
			"notification": n,
		})
	})
	if err != nil {
		return fail(err)
	}

	fmt.Fprintln(os.Stderr, "[worker] shutting down cleanly")
	return 0
}
