package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "ledger-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin server middleware.
// Spans are named "METHOD route_pattern", e.g. "PATCH /api/v1/payments/:id".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector tags the current span with request_id and user_id.
// Place it after Tracing and the JWT middleware so both are known.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
		c.Next()
	}
}

// enrichSpanWithAttributes adds request identifiers to the span
func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := getRequestIDFromContext(c); requestID != "" {
		if len(requestID) > MaxRequestIDLength {
			requestID = requestID[:MaxRequestIDLength]
		}
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if userID := c.GetString(logger.GinUserIDKey); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
}

// SpanErrorMarker marks the current span as failed for 4xx/5xx responses.
// Place it after Tracing in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		var message string
		switch {
		case statusCode >= http.StatusInternalServerError:
			message = "Internal Server Error"
		case statusCode == http.StatusUnauthorized:
			message = "Unauthorized"
		case statusCode == http.StatusNotFound:
			message = "Not Found"
		default:
			message = "Client Error"
		}
		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}
