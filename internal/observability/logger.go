package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON logger in production and a human-readable
// text logger everywhere else. The service name is attached to every
// record so the api and worker binaries can share one log stream.
func NewLogger(env, service string) *slog.Logger {
	var handler slog.Handler
	if env == "prod" || env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler).With("service", service)
}
