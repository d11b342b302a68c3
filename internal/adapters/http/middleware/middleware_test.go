package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/dto"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		header      string
		middleware  gin.HandlerFunc
		fromContext func(context.Context) string
		incoming    string
		expectKept  bool
	}{
		{"request id generated", HeaderRequestID, RequestID(), RequestIDFromContext, "", false},
		{"request id passed through", HeaderRequestID, RequestID(), RequestIDFromContext, "req-123", true},
		{"request id with spaces replaced", HeaderRequestID, RequestID(), RequestIDFromContext, "bad id", false},
		{"request id too long replaced", HeaderRequestID, RequestID(), RequestIDFromContext, strings.Repeat("a", 200), false},
		{"correlation id generated", HeaderCorrelationID, CorrelationID(), CorrelationIDFromContext, "", false},
		{"correlation id passed through", HeaderCorrelationID, CorrelationID(), CorrelationIDFromContext, "txn-9", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/test", func(c *gin.Context) {
				captured = tt.fromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(tt.header, tt.incoming)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, captured, w.Header().Get(tt.header))
			if tt.expectKept {
				assert.Equal(t, tt.incoming, captured)
			} else {
				_, err := uuid.Parse(captured)
				assert.NoError(t, err)
			}
		})
	}
}

func TestIDFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(nil)) //nolint:staticcheck // nil context is handled
}

func TestLogging_StoresScopedLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	router := gin.New()
	router.Use(RequestID(), CorrelationID(), Logging(jsonLogger(&buf)))
	router.POST("/api/v1/annotate", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/annotate?text=geheim", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var handled, completed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &handled))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &completed))

	assert.Equal(t, "req-1", handled["request_id"])
	assert.Equal(t, "corr-1", handled["correlation_id"])

	assert.Equal(t, "request completed", completed["msg"])
	assert.Equal(t, "/api/v1/annotate", completed["path"])
	assert.Equal(t, "/api/v1/annotate", completed["route"])
	assert.InDelta(t, http.StatusOK, completed["status"], 0)
	assert.NotContains(t, buf.String(), "geheim")
}

func TestLogging_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusBadRequest, "WARN"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			router := gin.New()
			router.Use(Logging(jsonLogger(&buf)))
			router.GET("/", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
		})
	}
}

func TestLogging_SkipsInternalPaths(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var scoped bool

	router := gin.New()
	router.Use(Logging(jsonLogger(&buf)))
	router.GET("/-/live", func(c *gin.Context) {
		_, scoped = logging.Lookup(c.Request.Context())
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/-/live", nil))

	assert.True(t, scoped)
	assert.Empty(t, buf.String())
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		contentType string
	}{
		{"api route gets json envelope", "/api/v1/boom", "application/json"},
		{"page route gets plain text", "/boom", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			router := gin.New()
			router.Use(Recovery(jsonLogger(&buf)))
			router.GET(tt.path, func(*gin.Context) { panic("kaputt") })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, buf.String(), "panic recovered")
			assert.Contains(t, buf.String(), "kaputt")
		})
	}
}

func TestRecovery_JSONBody(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery(jsonLogger(&bytes.Buffer{})))
	router.GET("/api/v1/boom", func(*gin.Context) { panic("kaputt") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "kaputt")
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	var ok bool

	router := gin.New()
	router.Use(Timeout(time.Minute))
	router.GET("/", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestTimeout_ZeroDisables(t *testing.T) {
	t.Parallel()

	var ok bool

	router := gin.New()
	router.Use(Timeout(0))
	router.GET("/", func(c *gin.Context) {
		_, ok = c.Request.Context().Deadline()
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, ok)
}
