// Package config loads configuration structs from environment variables using
// github.com/caarlos0/env field tags, with optional .env file support via
// github.com/joho/godotenv.
//
//	type AppConfig struct {
//	    LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
//	    LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
