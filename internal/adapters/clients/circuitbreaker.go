package clients

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// State is the circuit breaker state.
type State = gobreaker.State

// Circuit breaker states.
const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// Name identifies the backend in state change callbacks.
	Name string

	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures int

	// Timeout is how long to wait in open state before transitioning to half-open.
	Timeout time.Duration

	// HalfOpenLimit is the number of probe requests allowed while half-open.
	// That many consecutive successes close the circuit again.
	HalfOpenLimit int

	// OnStateChange is called on every transition.
	OnStateChange func(from, to State)
}

// CircuitBreaker guards one backend. It wraps gobreaker's two-step breaker
// because the client records the outcome after its own retry loop.
//
// State transitions:
//   - Closed → Open: After MaxFailures consecutive failures
//   - Open → HalfOpen: After Timeout duration has passed
//   - HalfOpen → Closed: After HalfOpenLimit consecutive successes
//   - HalfOpen → Open: On any failure
type CircuitBreaker struct {
	cb *gobreaker.TwoStepCircuitBreaker
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	maxFailures := uint32(max(cfg.MaxFailures, 1)) //nolint:gosec // bounded by config validation
	halfOpen := uint32(max(cfg.HalfOpenLimit, 1))  //nolint:gosec // bounded by config validation

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: halfOpen,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}

	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(_ string, from, to gobreaker.State) {
			cfg.OnStateChange(from, to)
		}
	}

	return &CircuitBreaker{cb: gobreaker.NewTwoStepCircuitBreaker(settings)}
}

// Allow reserves a slot for one request. The returned done func must be
// called exactly once with the request outcome. ErrCircuitOpen is returned
// while the circuit is open or the half-open probe slots are taken.
func (b *CircuitBreaker) Allow() (func(success bool), error) {
	done, err := b.cb.Allow()
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}

		return nil, err
	}

	return done, nil
}

// State returns the current state of the circuit breaker.
func (b *CircuitBreaker) State() State {
	return b.cb.State()
}
