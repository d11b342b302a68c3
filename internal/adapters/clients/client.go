package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/middleware"
	"github.com/jsamuelsen/derdiedas/internal/platform/config"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/derdiedas/internal/adapters/clients"

	// defaultTimeout applies when Config.Timeout is unset.
	defaultTimeout = 30 * time.Second

	// drainLimit bounds how much of a discarded body is read so the
	// connection can be reused.
	drainLimit = 4 << 10
)

// Config configures one backend client.
type Config struct {
	// BaseURL is prefixed to every request path, e.g. "http://localhost:8001".
	BaseURL string

	// ServiceName names the backend in logs, spans and metrics.
	ServiceName string

	// Timeout bounds one attempt. Retries and backoff may add to the total.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// RateLimit throttles attempts, retries included.
	RateLimit config.RateLimitConfig

	// AuthFunc sets credentials on every attempt.
	AuthFunc func(*http.Request)

	Logger *slog.Logger
}

// Client is the HTTP client for the tagger and translation backends. Each
// call gets bounded retries with backoff, a circuit breaker shared by all
// callers of the same backend, optional rate limiting, a client span and
// request/correlation ID propagation.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
	retry   retryPolicy
	auth    func(*http.Request)
	logger  *slog.Logger
	cb      *CircuitBreaker
	limiter *rate.Limiter
	tracer  trace.Tracer

	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New creates a client for cfg.ServiceName.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "clients.Client"), slog.String("downstream", cfg.ServiceName))

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of backend calls, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Backend calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	c := &Client{
		http:     &http.Client{Timeout: timeout, Transport: newTransport(cfg.Transport)},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		name:     cfg.ServiceName,
		retry:    retryPolicy{cfg.Retry},
		auth:     cfg.AuthFunc,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		requests: requests,
	}

	c.cb = NewCircuitBreaker(CircuitBreakerConfig{
		Name:          cfg.ServiceName,
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
		OnStateChange: func(from, to State) {
			logger.Warn("circuit breaker state changed", slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})

	if rl := cfg.RateLimit; rl.Enabled {
		c.limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), max(rl.Burst, 1))
	}

	return c, nil
}

func newTransport(cfg config.TransportConfig) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        positiveOr(cfg.MaxIdleConns, config.DefaultTransportMaxIdleConns),
		MaxIdleConnsPerHost: positiveOr(cfg.MaxIdleConnsPerHost, config.DefaultTransportMaxIdleConnsPerHost),
		IdleConnTimeout:     positiveOr(cfg.IdleConnTimeout, config.DefaultTransportIdleConnTimeout),
	}
}

func positiveOr[T int | time.Duration](v, fallback T) T {
	if v > 0 {
		return v
	}

	return fallback
}

// Do sends req. A non-retryable response is returned as is, whatever its
// status, and the caller owns its body. When every attempt fails the error
// wraps ErrMaxRetriesExceeded; an open circuit returns ErrCircuitOpen
// without touching the network.
//
// Retried requests rewind their body through req.GetBody. Requests built by
// Get, PostJSON and PostForm always have it set.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.Or(ctx, c.logger).With(
		slog.String("downstream", c.name),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	done, err := c.cb.Allow()
	if err != nil {
		c.record(ctx, req.Method, 0, time.Since(start), "circuit_open")
		logger.Warn("request blocked by circuit breaker")

		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", redactedURL(req.URL)),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	c.setHeaders(ctx, req)

	resp, err := c.attempt(ctx, req, logger)
	elapsed := time.Since(start)

	if err != nil {
		// A caller giving up says nothing about the backend.
		done(errors.Is(err, context.Canceled))

		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, req.Method, StatusCode(err), elapsed, "error")
		logger.Error("request failed", slog.Duration("duration", elapsed), slog.Any("error", err))

		if ctx.Err() != nil {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}

	done(true)

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.record(ctx, req.Method, resp.StatusCode, elapsed, strconv.Itoa(resp.StatusCode/100)+"xx")
	logger.Debug("request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

	return resp, nil
}

// attempt runs the retry loop and returns the first usable response.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	var (
		lastErr  error
		lastResp *http.Response
	)

	for n := 1; n <= c.retry.attempts(); n++ {
		if n > 1 {
			wait := c.retry.delay(n-1, lastResp)
			logger.Debug("retrying request", slog.Int("attempt", n), slog.Duration("backoff", wait), slog.Any("error", lastErr))

			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}

			if err := rewind(req); err != nil {
				return nil, err
			}

			if c.auth != nil {
				c.auth(req)
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))

		switch {
		case err != nil && retryableError(err):
			lastErr, lastResp = err, nil
		case err != nil:
			return nil, err
		case retryableStatus(resp.StatusCode):
			drain(resp.Body)
			lastErr, lastResp = &StatusError{StatusCode: resp.StatusCode}, resp
		default:
			return resp, nil
		}
	}

	return nil, lastErr
}

func rewind(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}

	req.Body = body

	return nil
}

// Get performs a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.buildURL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return c.send(ctx, http.MethodGet, target, http.NoBody, "")
}

// PostJSON encodes body as JSON and POSTs it.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	return c.send(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(payload), "application/json")
}

// PostForm POSTs form as application/x-www-form-urlencoded.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, c.buildURL(path), strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) send(ctx context.Context, method, target string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return c.Do(ctx, req)
}

// CircuitState returns the current state of the circuit breaker.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

// ServiceName returns the backend name the client was created for.
func (c *Client) ServiceName() string {
	return c.name
}

// setHeaders forwards request and correlation IDs, the trace context and
// credentials.
func (c *Client) setHeaders(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if c.auth != nil {
		c.auth(req)
	}
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

func (c *Client) record(ctx context.Context, method string, status int, d time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.name),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	c.duration.Record(ctx, d.Seconds(), opt)
	c.requests.Add(ctx, 1, opt)
}

// redactedURL drops the query string, which may carry an API key.
func redactedURL(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""

	return clean.String()
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, drainLimit))
	_ = body.Close()
}
