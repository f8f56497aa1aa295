package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestLedgerMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewLedgerMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.PaymentMutation(ctx, "record", "SALE", nil)
	m.PaymentMutation(ctx, "record", "SALE", nil)
	m.PaymentMutation(ctx, "update", "LOAN", errors.New("defaulted"))
	m.ReportGenerated(ctx, "cashflow", false, 30*time.Millisecond)
	m.ReportGenerated(ctx, "cashflow", true, time.Millisecond)

	got := collect(t, reader)

	sum, ok := got["ledger.payment.mutations"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[attribute.Distinct]int64{}
	for _, dp := range sum.DataPoints {
		counts[dp.Attributes.Equivalent()] = dp.Value
	}
	saleOK := attribute.NewSet(
		MetricAttrOperation.String("record"),
		MetricAttrPayableType.String("SALE"),
		MetricAttrOutcome.String("success"),
	)
	loanErr := attribute.NewSet(
		MetricAttrOperation.String("update"),
		MetricAttrPayableType.String("LOAN"),
		MetricAttrOutcome.String("error"),
	)
	assert.Equal(t, int64(2), counts[saleOK.Equivalent()])
	assert.Equal(t, int64(1), counts[loanErr.Equivalent()])

	hist, ok := got["ledger.report.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestLedgerMetrics_Nil(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.PaymentMutation(context.Background(), "delete", "SALE", nil)
		m.ReportGenerated(context.Background(), "income", true, time.Second)
	})
}
