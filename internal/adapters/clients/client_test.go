package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/middleware"
	"github.com/jsamuelsen/derdiedas/internal/platform/config"
)

func defaultConfig() *Config {
	return &Config{
		ServiceName: "libretranslate",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()
	require.NoError(t, resp.Body.Close())
}

func newTestClient(t *testing.T, cfg *Config) *Client {
	t.Helper()

	client, err := New(cfg)
	require.NoError(t, err)

	return client
}

// received is one request as received by a fakeBackend.
type received struct {
	header http.Header
	query  url.Values
	body   string
}

// fakeBackend answers with statuses in order, repeating the last one, and
// records what it received.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	statuses []int
	requests []received
}

func newFakeBackend(t *testing.T, statuses ...int) *fakeBackend {
	t.Helper()

	if len(statuses) == 0 {
		statuses = []int{http.StatusOK}
	}

	b := &fakeBackend{statuses: statuses}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		n := len(b.requests)
		b.requests = append(b.requests, received{header: r.Header.Clone(), query: r.URL.Query(), body: string(body)})
		status := b.statuses[min(n, len(b.statuses)-1)]
		b.mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(b.Close)

	return b
}

func (b *fakeBackend) seen() []received {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]received(nil), b.requests...)
}

func (b *fakeBackend) client(t *testing.T, edit func(*Config)) *Client {
	t.Helper()

	cfg := defaultConfig()
	cfg.BaseURL = b.URL
	if edit != nil {
		edit(cfg)
	}

	return newTestClient(t, cfg)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorContains(t, err, "config is required")

	cfg := defaultConfig()
	cfg.ServiceName = ""
	_, err = New(cfg)
	require.ErrorContains(t, err, "service name is required")

	cfg = defaultConfig()
	cfg.BaseURL = "http://localhost:5000/"
	client := newTestClient(t, cfg)

	assert.Equal(t, "http://localhost:5000", client.baseURL)
	assert.Equal(t, "libretranslate", client.ServiceName())
	assert.Equal(t, StateClosed, client.CircuitState())
	assert.Nil(t, client.limiter)
}

func TestClient_Statuses(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int
		attempts int

		wantStatus int  // response status, or the last status when exhausted
		exhausted  bool // every attempt failed
		wantCalls  int
	}{
		{name: "ok first time", statuses: []int{200}, attempts: 3, wantStatus: 200, wantCalls: 1},
		{name: "recovers after 5xx", statuses: []int{500, 502, 200}, attempts: 3, wantStatus: 200, wantCalls: 3},
		{name: "4xx returned as is", statuses: []int{400}, attempts: 3, wantStatus: 400, wantCalls: 1},
		{name: "404 not retried", statuses: []int{404}, attempts: 3, wantStatus: 404, wantCalls: 1},
		{name: "429 until exhausted", statuses: []int{429}, attempts: 2, wantStatus: 429, exhausted: true, wantCalls: 2},
		{name: "503 until exhausted", statuses: []int{503}, attempts: 3, wantStatus: 503, exhausted: true, wantCalls: 3},
		{name: "single attempt", statuses: []int{503, 200}, attempts: 1, wantStatus: 503, exhausted: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(t, tt.statuses...)
			client := backend.client(t, func(c *Config) { c.Retry.MaxAttempts = tt.attempts })

			resp, err := client.Get(context.Background(), "/languages", nil)

			if tt.exhausted {
				require.ErrorIs(t, err, ErrMaxRetriesExceeded)
				assert.Equal(t, tt.wantStatus, StatusCode(err))
			} else {
				require.NoError(t, err)
				defer closeBody(t, resp)
				assert.Equal(t, tt.wantStatus, resp.StatusCode)
			}

			assert.Len(t, backend.seen(), tt.wantCalls)
		})
	}
}

func TestClient_PropagatesIDs(t *testing.T) {
	backend := newFakeBackend(t)
	client := backend.client(t, nil)

	ctx := middleware.ContextWithRequestID(context.Background(), "req-7f3a")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-19bd")

	resp, err := client.Get(ctx, "/models", nil)
	require.NoError(t, err)
	closeBody(t, resp)

	got := backend.seen()[0].header
	assert.Equal(t, "req-7f3a", got.Get(middleware.HeaderRequestID))
	assert.Equal(t, "corr-19bd", got.Get(middleware.HeaderCorrelationID))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestClient_Requests(t *testing.T) {
	tests := []struct {
		name  string
		send  func(*Client) (*http.Response, error)
		check func(t *testing.T, got received)
	}{
		{
			name: "get with query",
			send: func(c *Client) (*http.Response, error) {
				return c.Get(context.Background(), "/process", url.Values{"model": {"german-gsd"}, "data": {"der Mann"}})
			},
			check: func(t *testing.T, got received) {
				assert.Equal(t, "german-gsd", got.query.Get("model"))
				assert.Equal(t, "der Mann", got.query.Get("data"))
			},
		},
		{
			name: "post json",
			send: func(c *Client) (*http.Response, error) {
				return c.PostJSON(context.Background(), "/translate", map[string]any{"q": []string{"Hallo"}, "target": "en"})
			},
			check: func(t *testing.T, got received) {
				assert.Equal(t, "application/json", got.header.Get("Content-Type"))
				assert.JSONEq(t, `{"q":["Hallo"],"target":"en"}`, got.body)
			},
		},
		{
			name: "post form",
			send: func(c *Client) (*http.Response, error) {
				return c.PostForm(context.Background(), "process", url.Values{"data": {"Die Frau liest."}})
			},
			check: func(t *testing.T, got received) {
				assert.Equal(t, "application/x-www-form-urlencoded", got.header.Get("Content-Type"))

				form, err := url.ParseQuery(got.body)
				require.NoError(t, err)
				assert.Equal(t, "Die Frau liest.", form.Get("data"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(t)

			resp, err := tt.send(backend.client(t, nil))
			require.NoError(t, err)
			closeBody(t, resp)

			require.Len(t, backend.seen(), 1)
			tt.check(t, backend.seen()[0])
		})
	}
}

func TestClient_RetryResendsBodyAndAuth(t *testing.T) {
	backend := newFakeBackend(t, http.StatusBadGateway, http.StatusOK)

	var authCalls int
	client := backend.client(t, func(c *Config) {
		c.AuthFunc = func(r *http.Request) {
			authCalls++
			q := r.URL.Query()
			q.Set("key", "AIza-test")
			r.URL.RawQuery = q.Encode()
		}
	})

	resp, err := client.PostJSON(context.Background(), "/language/translate/v2", map[string]string{"q": "Hallo"})
	require.NoError(t, err)
	closeBody(t, resp)

	got := backend.seen()
	require.Len(t, got, 2)
	assert.Equal(t, 2, authCalls)

	for _, req := range got {
		assert.JSONEq(t, `{"q":"Hallo"}`, req.body)
		assert.Equal(t, "AIza-test", req.query.Get("key"))
	}
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	backend := newFakeBackend(t, http.StatusServiceUnavailable)
	client := backend.client(t, func(c *Config) {
		c.Retry.MaxAttempts = 1
		c.Circuit.MaxFailures = 2
	})

	for range 2 {
		_, err := client.Get(context.Background(), "/process", nil)
		require.ErrorIs(t, err, ErrMaxRetriesExceeded)
	}
	assert.Equal(t, StateOpen, client.CircuitState())

	_, err := client.Get(context.Background(), "/process", nil)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Len(t, backend.seen(), 2, "open circuit must not reach the backend")
}

func TestClient_CallerCancellationKeepsCircuitClosed(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer slow.Close()

	cfg := defaultConfig()
	cfg.BaseURL = slow.URL
	cfg.Circuit.MaxFailures = 1
	client := newTestClient(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := client.Get(ctx, "/process", nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Equal(t, StateClosed, client.CircuitState())
}

func TestClient_Deadlines(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer slow.Close()

	t.Run("attempt timeout", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.BaseURL = slow.URL
		cfg.Timeout = 50 * time.Millisecond
		cfg.Retry.MaxAttempts = 1

		_, err := newTestClient(t, cfg).Get(context.Background(), "/process", nil)
		require.ErrorIs(t, err, ErrMaxRetriesExceeded)
	})

	t.Run("caller deadline", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.BaseURL = slow.URL

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := newTestClient(t, cfg).Get(ctx, "/process", nil)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClient_RateLimit(t *testing.T) {
	backend := newFakeBackend(t)
	client := backend.client(t, func(c *Config) {
		c.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1}
	})
	require.NotNil(t, client.limiter)

	resp, err := client.Get(context.Background(), "/languages", nil)
	require.NoError(t, err)
	closeBody(t, resp)

	// The bucket is empty, so a short deadline cannot be met.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Get(ctx, "/languages", nil)
	require.ErrorContains(t, err, "rate limit wait")
	assert.Len(t, backend.seen(), 1)
}

func TestClient_BuildURL(t *testing.T) {
	client := &Client{baseURL: "http://localhost:8001"}

	assert.Equal(t, "http://localhost:8001/process", client.buildURL("/process"))
	assert.Equal(t, "http://localhost:8001/process", client.buildURL("process"))
}

func TestRedactedURL(t *testing.T) {
	u, err := url.Parse("https://translation.googleapis.com/language/translate/v2?key=secret")
	require.NoError(t, err)

	assert.Equal(t, "https://translation.googleapis.com/language/translate/v2", redactedURL(u))
}
