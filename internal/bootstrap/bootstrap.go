// Package bootstrap assembles the adapters and application services shared
// by the HTTP service and the CLI.
package bootstrap

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
	"github.com/jsamuelsen/derdiedas/internal/adapters/clients/acl"
	"github.com/jsamuelsen/derdiedas/internal/adapters/translation"
	"github.com/jsamuelsen/derdiedas/internal/app"
	"github.com/jsamuelsen/derdiedas/internal/platform/config"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
	"github.com/jsamuelsen/derdiedas/internal/platform/metrics"
	"github.com/jsamuelsen/derdiedas/internal/platform/telemetry"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

const (
	// DefaultProfile is the config profile used when APP_ENVIRONMENT is unset.
	DefaultProfile = "local"

	// ConfigDirEnv overrides the directory holding base.yaml and the
	// profile files, for running the binaries outside the repository root.
	ConfigDirEnv = "DERDIEDAS_CONFIG_DIR"
)

// LoadConfig loads .env if present, then the layered configuration for the
// APP_ENVIRONMENT profile, and validates it.
func LoadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	profile := cmp.Or(os.Getenv("APP_ENVIRONMENT"), DefaultProfile)

	cfg, err := config.Load(profile, config.WithDir(os.Getenv(ConfigDirEnv)))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoggingConfig maps the log section onto logging.Config.
func LoggingConfig(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}
}

// TelemetryConfig maps the telemetry section onto telemetry.Config.
// Export errors go to logger.
func TelemetryConfig(cfg *config.Config, logger *slog.Logger) *telemetry.Config {
	return &telemetry.Config{
		Logger:       logger,
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cmp.Or(cfg.Telemetry.ServiceName, cfg.App.Name),
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	}
}

// Components are the wired collaborators of one process.
type Components struct {
	Tagger      *acl.UDPipeTagger
	Translator  translation.Backend
	Annotation  *app.AnnotationService
	Translation *app.TranslationService

	// Metrics is nil when Build was given no registerer.
	Metrics *metrics.Metrics
}

// Build creates the tagger, the configured translation backend and the
// application services. A nil reg disables the domain counters.
//
// The tagger model is resolved here, once. A failed resolution is not fatal:
// annotation reports domain.ErrModelUnavailable and readiness stays down.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		m   *metrics.Metrics
		err error
	)

	if reg != nil {
		m, err = metrics.New(reg)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	taggerClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Tagger.BaseURL,
		ServiceName: "udpipe",
		Timeout:     cfg.Tagger.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		RateLimit:   cfg.Client.RateLimit,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating tagger client: %w", err)
	}

	tagger := acl.NewUDPipeTagger(acl.UDPipeTaggerConfig{
		Client: taggerClient,
		Model:  cfg.Tagger.Model,
		Logger: logger,
	})
	_ = tagger.Load(ctx)

	backend, err := translation.New(ctx, cfg.Translation, cfg.Client, logger)
	if err != nil {
		return nil, fmt.Errorf("creating translator: %w", err)
	}

	return &Components{
		Tagger:     tagger,
		Translator: backend,
		Annotation: app.NewAnnotationService(app.AnnotationServiceConfig{
			Tagger:        tagger,
			ColorNouns:    cfg.Annotate.ColorNouns,
			MaxInputBytes: cfg.Annotate.MaxInputBytes,
			Metrics:       m,
			Logger:        logger,
		}),
		Translation: app.NewTranslationService(app.TranslationServiceConfig{
			Translator:    backend,
			MaxInputBytes: cfg.Annotate.MaxInputBytes,
			Metrics:       m,
			Logger:        logger,
		}),
		Metrics: m,
	}, nil
}

// RegisterHealth adds the tagger and the translator to registry.
func (c *Components) RegisterHealth(registry ports.HealthRegistry) error {
	for _, checker := range []ports.HealthChecker{c.Tagger, c.Translator} {
		if err := registry.Register(checker); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	return nil
}
