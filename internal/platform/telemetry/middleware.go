package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jsamuelsen/derdiedas/internal/platform/telemetry"

	// HeaderTraceID echoes the request's trace ID to the caller.
	HeaderTraceID = "X-Trace-ID"

	// unmatchedRoute replaces the raw path of requests no route matched, so
	// scanners cannot blow up metric cardinality.
	unmatchedRoute = "unmatched"
)

// serverMetrics are the HTTP server instruments.
type serverMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerMetrics(meter metric.Meter) (*serverMetrics, error) {
	duration, errDuration := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	)
	total, errTotal := meter.Int64Counter("http.server.request.total",
		metric.WithDescription("HTTP requests by route and status"),
	)
	inFlight, errInFlight := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("HTTP requests being served"),
	)

	if err := errors.Join(errDuration, errTotal, errInFlight); err != nil {
		return nil, err
	}

	return &serverMetrics{duration: duration, total: total, inFlight: inFlight}, nil
}

// Middleware returns otelgin tracing followed by request metrics and the
// X-Trace-ID response header.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), serverMiddleware()}
}

func serverMiddleware() gin.HandlerFunc {
	m, err := newServerMetrics(otel.Meter(instrumentationName))
	if err != nil {
		// Serve without metrics; the error handler logs it.
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// Set before the handler runs; headers are frozen once it writes.
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if m == nil {
			c.Next()
			return
		}

		m.serve(ctx, c)
	}
}

func (m *serverMetrics) serve(ctx context.Context, c *gin.Context) {
	start := time.Now()
	route := attribute.String("http.route", routeOf(c))
	method := attribute.String("http.method", c.Request.Method)

	inFlight := metric.WithAttributes(method, route)
	m.inFlight.Add(ctx, 1, inFlight)
	defer m.inFlight.Add(ctx, -1, inFlight)

	c.Next()

	done := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
	m.duration.Record(ctx, time.Since(start).Seconds(), done)
	m.total.Add(ctx, 1, done)
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}
