package translation

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
	"github.com/jsamuelsen/derdiedas/internal/adapters/clients/acl"
	"github.com/jsamuelsen/derdiedas/internal/platform/config"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

// Backend is a translator that can report its own health.
type Backend interface {
	ports.Translator
	ports.HealthChecker
}

// New builds the backend named by cfg.Provider.
//
// HTTP backends go through clients.Client for retries, circuit breaking and
// rate limiting. SDK backends bring their own retries and are wrapped by Guard.
func New(ctx context.Context, cfg config.TranslationConfig, clientCfg config.ClientConfig, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Provider {
	case config.ProviderLibreTranslate:
		client, err := newHTTPClient(cfg, clientCfg, "libretranslate", acl.LibreTranslateDefaultURL, nil, logger)
		if err != nil {
			return nil, err
		}

		return acl.NewLibreTranslate(acl.LibreTranslateConfig{
			Client: client,
			APIKey: cfg.APIKey,
			Logger: logger,
		}), nil

	case config.ProviderGoogle:
		client, err := newHTTPClient(cfg, clientCfg, "google-translate", acl.GoogleTranslateDefaultURL,
			acl.GoogleAPIKey(cfg.APIKey), logger)
		if err != nil {
			return nil, err
		}

		return acl.NewGoogleTranslate(acl.GoogleTranslateConfig{Client: client, Logger: logger}), nil

	case config.ProviderOpenAI:
		backend := NewOpenAI(OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: clientCfg.Retry.MaxAttempts - 1,
			Logger:     logger,
		})

		return Guard(backend, clientCfg, logger), nil

	case config.ProviderGemini:
		backend, err := NewGemini(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}

		return Guard(backend, clientCfg, logger), nil

	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Provider)
	}
}

func newHTTPClient(
	cfg config.TranslationConfig,
	clientCfg config.ClientConfig,
	name, defaultURL string,
	auth func(*http.Request),
	logger *slog.Logger,
) (*clients.Client, error) {
	client, err := clients.New(&clients.Config{
		BaseURL:     cmp.Or(cfg.BaseURL, defaultURL),
		ServiceName: name,
		Timeout:     cmp.Or(cfg.Timeout, clientCfg.Timeout),
		Retry:       clientCfg.Retry,
		Circuit:     clientCfg.CircuitBreaker,
		Transport:   clientCfg.Transport,
		RateLimit:   clientCfg.RateLimit,
		AuthFunc:    auth,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", name, err)
	}

	return client, nil
}
