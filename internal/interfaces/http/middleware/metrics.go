package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPDurationBuckets are request latency boundaries in seconds
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metric attribute keys
var (
	attrHTTPMethod     = attribute.Key("http.method")
	attrHTTPRoute      = attribute.Key("http.route")
	attrHTTPStatusCode = attribute.Key("http.status_code")
)

// httpMetrics holds all HTTP-related metrics instruments.
type httpMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
}

// newHTTPMetrics creates all HTTP metrics instruments from a meter.
func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := meter.Int64Counter(
		"http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency distribution in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(HTTPDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics returns a Gin middleware that records request count, latency and
// in-flight requests on meter. A nil meter or an instrument error yields a no-op.
func HTTPMetrics(meter metric.Meter) gin.HandlerFunc {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		m.activeRequests.Add(ctx, 1)
		c.Next()
		m.activeRequests.Add(ctx, -1)

		recordHTTPMetrics(ctx, m, c.Request.Method, getRoutePattern(c), c.Writer.Status(), time.Since(start))
	}
}

func recordHTTPMetrics(ctx context.Context, m *httpMetrics, method, route string, status int, d time.Duration) {
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attrHTTPMethod.String(method),
		attrHTTPRoute.String(route),
		attrHTTPStatusCode.Int(status),
	))
	// Duration only by method and route to keep cardinality low
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attrHTTPMethod.String(method),
		attrHTTPRoute.String(route),
	))
}

// getRoutePattern returns the matched route (e.g. "/api/v1/payments/:id")
// instead of the raw path.
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
