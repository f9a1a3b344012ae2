package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. JSON output keeps log lines
// machine-parseable in deployment; handlers attach request_id attributes.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
