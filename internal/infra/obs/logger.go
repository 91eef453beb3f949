package obs

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger. Dev and test environments get tint's
// colored output at debug level; everything else emits JSON at info with
// source locations for log ingestion. Every record carries the service name
// so the bot gateway's logs and ours can share a stream.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test", "testing":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.TimeOnly,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	}
	return slog.New(handler).With("service", "stayhub")
}
