package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	MetricAttrOperation   = attribute.Key("operation")
	MetricAttrPayableType = attribute.Key("payable_type")
	MetricAttrOutcome     = attribute.Key("outcome")
	MetricAttrReport      = attribute.Key("report")
	MetricAttrCache       = attribute.Key("cache")
)

// ReportDurationBuckets are histogram boundaries in seconds
var ReportDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// LedgerMetrics records payment mutations and report generation.
// A nil *LedgerMetrics records nothing.
type LedgerMetrics struct {
	mutations metric.Int64Counter
	reports   metric.Float64Histogram
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	mutations, err := meter.Int64Counter("ledger.payment.mutations",
		metric.WithDescription("Payment create, update and delete operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("payment mutation counter: %w", err)
	}
	reports, err := meter.Float64Histogram("ledger.report.duration",
		metric.WithDescription("Time taken to produce a financial report"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ReportDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("report duration histogram: %w", err)
	}
	return &LedgerMetrics{mutations: mutations, reports: reports}, nil
}

// PaymentMutation counts one payment operation against a payable kind
func (m *LedgerMetrics) PaymentMutation(ctx context.Context, operation, payableType string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.mutations.Add(ctx, 1, metric.WithAttributes(
		MetricAttrOperation.String(operation),
		MetricAttrPayableType.String(payableType),
		MetricAttrOutcome.String(outcome),
	))
}

// ReportGenerated records how long a report took and whether it came from cache
func (m *LedgerMetrics) ReportGenerated(ctx context.Context, report string, cached bool, d time.Duration) {
	if m == nil {
		return
	}
	cache := "miss"
	if cached {
		cache = "hit"
	}
	m.reports.Record(ctx, d.Seconds(), metric.WithAttributes(
		MetricAttrReport.String(report),
		MetricAttrCache.String(cache),
	))
}
