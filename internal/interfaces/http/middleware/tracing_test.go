package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})

	return sr
}

func findSpan(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, span := range spans {
		if span.Name() == name {
			return span
		}
	}
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, ServiceName: "test-service"}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_NamesSpanByRoute(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
	router.GET("/payments/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, findSpan(sr.Ended(), "GET /payments/:id"))
}

func TestTracingAttributeInjector_AddsRequestAndUser(t *testing.T) {
	sr := setupTestTracer(t)
	caller := shared.NewCaller(uuid.New(), shared.RegistrationPartnership)

	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(DefaultTracingConfig()))
	router.Use(func(c *gin.Context) {
		SetCaller(c, caller)
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "test-request-id-123")
	router.ServeHTTP(w, req)

	span := findSpan(sr.Ended(), "GET /test")
	require.NotNil(t, span)

	v, ok := spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "test-request-id-123", v.AsString())

	v, ok = spanAttr(span, "user_id")
	require.True(t, ok)
	assert.Equal(t, caller.UserID.String(), v.AsString())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status  int
		isError bool
		message string
	}{
		{http.StatusOK, false, ""},
		{http.StatusCreated, false, ""},
		{http.StatusBadRequest, true, "Client Error"},
		{http.StatusUnauthorized, true, "Unauthorized"},
		{http.StatusNotFound, true, "Not Found"},
		{http.StatusInternalServerError, true, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr := setupTestTracer(t)

			router := gin.New()
			router.Use(TracingWithConfig(DefaultTracingConfig()))
			router.Use(SpanErrorMarker())
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			span := findSpan(sr.Ended(), "GET /test")
			require.NotNil(t, span)
			if tt.isError {
				assert.Equal(t, codes.Error, span.Status().Code)
				assert.Equal(t, tt.message, span.Status().Description)
			} else {
				assert.NotEqual(t, codes.Error, span.Status().Code)
			}
		})
	}
}

func TestSpanErrorMarker_WithNoSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanErrorMarker())
	router.Use(TracingAttributeInjector())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
