package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// Logging returns middleware that stores a request-scoped logger in the
// context and logs request completion.
//
// The logger carries request_id, correlation_id and, when a span is active,
// trace_id. Paths under /-/ still get the scoped logger but are not logged.
// The query string is never logged because form input can carry user text.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		attrs := []any{
			slog.String("request_id", RequestIDFromContext(ctx)),
			slog.String("correlation_id", CorrelationIDFromContext(ctx)),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
		}

		reqLogger := logger.With(attrs...)
		c.Request = c.Request.WithContext(logging.WithContext(ctx, reqLogger))

		if strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		reqLogger.Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
