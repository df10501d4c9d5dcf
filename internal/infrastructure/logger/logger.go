package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tubely/upload-api/internal/config"
)

// New creates a zerolog.Logger for the upload service. Development gets the
// console writer, every other environment emits JSON lines.
func New(cfg *config.Config) zerolog.Logger {
	return build(cfg, os.Stdout)
}

func build(cfg *config.Config, out io.Writer) zerolog.Logger {
	writer := out
	if isDevelopment(cfg.Environment) {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(writer).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger().
		Level(parseLevel(cfg.LogLevel))
}

func isDevelopment(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "development", "dev", "local":
		return true
	}
	return false
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
