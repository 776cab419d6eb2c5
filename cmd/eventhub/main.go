package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Leonardo062908/eventhub/pkg/config"
	"github.com/Leonardo062908/eventhub/pkg/logger"
	"github.com/Leonardo062908/eventhub/pkg/redis"
)

const connectHint = "hint: start one with: docker run --name redis-local -p 6379:6379 -d redis"

type appConfig struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Global flags may precede the command group, argparse style:
	//   eventhub --log-level debug cache get --id 101
	levelName := cfg.LogLevel
	formatName := cfg.LogFormat
	for len(args) >= 2 {
		switch args[0] {
		case "--log-level", "-log-level":
			levelName = args[1]
			args = args[2:]
		case "--log-format", "-log-format":
			formatName = args[1]
			args = args[2:]
		default:
			goto parsed
		}
	}
parsed:

	level, err := logger.ParseLevel(levelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(formatName)),
	)
	slog.SetDefault(log)

	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "cache":
		return runCache(args[1:], log)
	case "notify":
		return runNotify(args[1:], log)
	case "events":
		return runEvents(args[1:], log)
	case "help", "--help", "-h":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: eventhub [--log-level LEVEL] [--log-format text|json] COMMAND

Commands:
  cache get --id ID [--ttl SECONDS] [--show-ttl]   fetch an event through the cache
  cache del --id ID                                evict an event from the cache
  notify enqueue --user USER --message MESSAGE     enqueue a notification
  notify enqueue-batch --file PATH                 enqueue a JSON Lines file
  notify worker                                    consume the queue (blocking)
  events publish --id ID                           publish an event update
  events subscribe                                 listen for event updates (blocking)

Environment:
  REDIS_URL   redis connection string (default redis://localhost:6379/0)
  LOG_LEVEL   debug|info|warn|error (default info)
  LOG_FORMAT  text|json (default text)
`)
}

// connect loads the redis configuration from the environment and opens a
// verified client. Unreachable-store failures are reported here with a
// remediation hint; callers just propagate the non-nil error as exit code 1.
func connect(ctx context.Context) (*goredis.Client, error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, err
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not connect to redis at %s: %v\n", cfg.ConnectionURL, err)
		fmt.Fprintln(os.Stderr, connectHint)
		return nil, err
	}
	return client, nil
}

// fail reports a command failure as a single line, adding the docker hint
// when the store went away mid-operation.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if errors.Is(err, redis.ErrNotReady) || errors.Is(err, redis.ErrHealthcheckFailed) {
		fmt.Fprintln(os.Stderr, connectHint)
	}
	return 1
}

// printJSON writes the command result to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: encode result: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
