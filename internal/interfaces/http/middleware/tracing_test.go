package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/proposals/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func setupTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})
	return tp, sr
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tp, sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{ServiceName: "test", TracerProvider: tp}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_RouteSpanWithAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tp, sr := setupTestTracer(t)

	router := gin.New()
	router.Use(logger.GinMiddleware(zap.NewNop()))
	router.Use(TracingWithConfig(TracingConfig{ServiceName: "test", Enabled: true, TracerProvider: tp}))
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, "user-1")
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/proposals/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/proposals/42", nil)
	req.Header.Set(logger.RequestIDHeader, "req-7")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/proposals/:id")

	attrs := spanAttributes(spans[0])
	assert.Equal(t, "req-7", attrs["request_id"].AsString())
	assert.Equal(t, "user-1", attrs["user_id"].AsString())
}

func TestTracingWithConfig_SkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tp, sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{
		ServiceName:    "test",
		Enabled:        true,
		TracerProvider: tp,
		SkipPaths:      []string{"/health"},
	}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/work", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/work", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/work")
}
