// Package logger builds log/slog loggers with functional options for level,
// format (text or json), output destination, and static attributes.
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithAttr(slog.String("component", "worker")),
//	)
package logger
