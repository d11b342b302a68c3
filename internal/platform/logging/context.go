package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// SetDefault replaces the fallback logger and slog's default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}

// WithContext returns ctx carrying logger.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Lookup returns the request-scoped logger, if the HTTP middleware stored one.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}

	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)

	return logger, ok && logger != nil
}

// FromContext returns the request-scoped logger or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	return Or(ctx, defaultLogger)
}

// Or returns the request-scoped logger or fallback. Services use it so a
// CLI run logs through the service's own logger while HTTP requests keep
// their request_id.
func Or(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}

	return fallback
}

// With returns ctx whose logger carries attrs in addition to its own.
func With(ctx context.Context, attrs ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(attrs...))
}
