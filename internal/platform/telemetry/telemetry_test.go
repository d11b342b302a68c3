package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_DisabledIsNoop(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledInstallsGlobals(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	p, err := New(context.Background(), &Config{
		Enabled:      true,
		Endpoint:     "http://127.0.0.1:4317",
		ServiceName:  "derdiedas",
		Version:      "test",
		Environment:  "test",
		SamplingRate: 1,
	})

	require.NoError(t, err)
	assert.True(t, p.Enabled())
	assert.Same(t, p.tracerProvider, otel.GetTracerProvider())

	// No collector listens; only make sure shutdown returns promptly.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Shutdown(ctx)
}

func TestNewResource_MatchesSDKSchema(t *testing.T) {
	res, err := newResource(&Config{
		Enabled:      true,
		Endpoint:     "http://127.0.0.1:4317",
		ServiceName:  "derdiedas",
		Version:      "1.2.0",
		Environment:  "prod",
		SamplingRate: 0.1,
	})
	require.NoError(t, err)

	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

	attrs := res.Set()
	for key, want := range map[attribute.Key]string{
		"service.name":                "derdiedas",
		"service.version":             "1.2.0",
		"deployment.environment.name": "prod",
	} {
		got, ok := attrs.Value(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got.AsString(), key)
	}

	_, ok := attrs.Value("telemetry.sdk.name")
	assert.True(t, ok, "SDK defaults are kept")
}

func TestStartSpan_RecordsErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "derdiedas.translate", attribute.String("target", "en"))
	EndSpan(span, errors.New("backend down"))

	_, ok := StartSpan(context.Background(), "derdiedas.annotate")
	EndSpan(ok, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "derdiedas.translate", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("target", "en"))

	assert.Equal(t, "derdiedas.annotate", ended[1].Name())
	assert.Equal(t, codes.Unset, ended[1].Status().Code)
}

func TestMiddleware_SetsTraceHeader(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(Middleware("derdiedas")...)
	r.GET("/api/v1/legend", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/legend", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(HeaderTraceID), 32)
}

func TestMiddleware_TraceHeaderSurvivesBodyWrite(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(Middleware("derdiedas")...)
	r.POST("/api/v1/annotate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"html": "<span class=\"masc\">Der</span>"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/annotate", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(HeaderTraceID), 32)
}

func TestMiddleware_NoTracerNoHeader(t *testing.T) {
	r := gin.New()
	r.Use(serverMiddleware())
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(HeaderTraceID))
}

func TestRouteOf_Unmatched(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/nope", nil)

	assert.Equal(t, unmatchedRoute, routeOf(c))
}
