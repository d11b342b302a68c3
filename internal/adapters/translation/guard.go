package translation

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/config"
)

// Guarded wraps an SDK backend with the same circuit breaker and rate limit
// the HTTP backends get from clients.Client.
type Guarded struct {
	next    Backend
	cb      *clients.CircuitBreaker
	limiter *rate.Limiter
}

// Guard wraps next with a circuit breaker and an optional rate limiter.
func Guard(next Backend, cfg config.ClientConfig, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "translation.Guarded"),
		slog.String("downstream", next.Name()),
	)

	g := &Guarded{
		next: next,
		cb: clients.NewCircuitBreaker(clients.CircuitBreakerConfig{
			Name:          next.Name(),
			MaxFailures:   cfg.CircuitBreaker.MaxFailures,
			Timeout:       cfg.CircuitBreaker.Timeout,
			HalfOpenLimit: cfg.CircuitBreaker.HalfOpenLimit,
			OnStateChange: func(from, to clients.State) {
				logger.Warn("circuit breaker state changed",
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			},
		}),
	}

	if cfg.RateLimit.Enabled {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), max(cfg.RateLimit.Burst, 1))
	}

	return g
}

// Name implements ports.Translator.
func (g *Guarded) Name() string {
	return g.next.Name()
}

// Translate implements ports.Translator.
func (g *Guarded) Translate(ctx context.Context, req domain.TranslationRequest) ([]string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	done, err := g.cb.Allow()
	if err != nil {
		return nil, domain.NewTranslationUnavailableError(g.Name(), clients.ErrCircuitOpen.Error())
	}

	out, err := g.next.Translate(ctx, req)
	done(err == nil || errors.Is(err, context.Canceled))

	return out, err
}

// Check implements ports.HealthChecker. Health probes bypass the breaker.
func (g *Guarded) Check(ctx context.Context) error {
	return g.next.Check(ctx)
}

// State reports the circuit state.
func (g *Guarded) State() clients.State {
	return g.cb.State()
}
