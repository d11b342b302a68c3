package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/dto"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// Recovery returns middleware that turns a handler panic into a 500.
//
// API routes get the JSON error envelope; every other route gets a plain
// text body so a browser shows something readable. Apply it first so it
// wraps all other middleware.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			ctx := c.Request.Context()

			reqLogger := logging.Or(ctx, logger)

			var traceID string
			if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
				traceID = sc.TraceID().String()
			}

			reqLogger.Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").WithTraceID(traceID))
				return
			}

			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("Internal Server Error\n"))
			c.Abort()
		}()

		c.Next()
	}
}
