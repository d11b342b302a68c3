package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/handlers"
	"github.com/jsamuelsen/derdiedas/internal/adapters/http/middleware"
	"github.com/jsamuelsen/derdiedas/internal/platform/telemetry"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

// DefaultRequestTimeout is the default deadline for page and API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the otel server spans.
	ServiceName string

	Logger *slog.Logger

	Annotator  ports.AnnotationService
	Translator ports.TranslationService

	// HealthHandler serves /-/; nil skips the internal routes.
	HealthHandler *handlers.HealthHandler

	// Timeout is the request deadline for / and /api/v1. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request-scoped logger (skips health endpoints)
//  6. Timeout - request deadline on / and /api/v1
//
// Route groups:
//   - /-/ (internal): health, build info and metrics
//   - / (page): HTML form
//   - /api/v1/ (public API): annotate, translate, legend, examples
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	timeout := middleware.Timeout(cfg.Timeout)

	handlers.NewPageHandler(cfg.Annotator, cfg.Translator).RegisterRoutes(engine.Group("/", timeout))

	apiV1 := engine.Group("/api/v1", timeout)
	handlers.NewAPIHandler(cfg.Annotator, cfg.Translator).RegisterRoutes(apiV1)
}
