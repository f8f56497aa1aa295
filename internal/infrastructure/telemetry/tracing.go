package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of service spans
const TracerName = "ledger-backend"

// Span attribute keys
const (
	AttrUserID      = "ledger.user_id"
	AttrPaymentID   = "ledger.payment_id"
	AttrPayableType = "ledger.payable_type"
	AttrPayableID   = "ledger.payable_id"
	AttrAmount      = "ledger.amount"
	AttrReportType  = "ledger.report_type"
	AttrRange       = "ledger.range"
	AttrCacheHit    = "ledger.cache_hit"
	AttrRecordCount = "ledger.record_count"
)

// StartServiceSpan starts a span named "{service}.{method}".
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, keyValues ...any) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(TracerName).Start(ctx, service+"."+method)
	SetAttributes(span, keyValues...)
	return ctx, span
}

// SetAttributes sets alternating key/value pairs on span. Non-string keys are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil || len(keyValues) < 2 {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	span.SetAttributes(attrs...)
}

// RecordError marks span as failed
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceID returns the trace id of the span in ctx, or ""
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
