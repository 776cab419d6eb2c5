package redis

import "time"

// Config describes how to reach the Redis server. Fields are populated from
// the environment via github.com/caarlos0/env.
type Config struct {
	// ConnectionURL is the redis connection string, e.g. "redis://:password@localhost:6379/0".
	ConnectionURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	// RetryAttempts is how many times Connect pings the server before giving up.
	RetryAttempts int `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the pause between failed ping attempts.
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	// ConnectTimeout bounds the whole Connect call, retries included.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}
