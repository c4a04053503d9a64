package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New builds the JSON logger shared by all services. The minimum level
// comes from LOG_LEVEL (debug, info, warn, error) and defaults to info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
