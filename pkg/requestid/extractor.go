package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor adapts FromContext to the logger package's
// ContextExtractor shape, so every log record carries the request ID when
// one is present.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}
