// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http"
	"github.com/jsamuelsen/derdiedas/internal/adapters/http/handlers"
	"github.com/jsamuelsen/derdiedas/internal/bootstrap"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
	"github.com/jsamuelsen/derdiedas/internal/platform/telemetry"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load .env, then the APP_ENVIRONMENT profile, and validate (fail fast)
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize logging
	logger := logging.New(bootstrap.LoggingConfig(cfg))
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("translation_provider", cfg.Translation.Provider),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, bootstrap.TelemetryConfig(cfg, logger))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Tagger, translator and application services; the tagger model is
	// resolved here once
	components, err := bootstrap.Build(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	// 5. Health registry for /-/ready
	healthRegistry := ports.NewHealthRegistry()
	if err := components.RegisterHealth(healthRegistry); err != nil {
		return err
	}

	// 6. Create HTTP server
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	buildInfo.Tagger = components.Tagger.Model()
	buildInfo.Translator = components.Translator.Name()

	server := http.New(&cfg.Server, logger)

	// 7. Setup router with all middleware and routes
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:   cfg.App.Name,
		Logger:        logger,
		Annotator:     components.Annotation,
		Translator:    components.Translation,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer),
		Timeout:       http.DefaultRequestTimeout,
	})

	// 8. Serve until SIGINT/SIGTERM, then drain in-flight requests
	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}
