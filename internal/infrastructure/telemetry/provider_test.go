package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{Enabled: false, ServiceName: "ledger"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LogCore(zapcore.InfoLevel))
	assert.NotNil(t, p.Meter("ledger"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOn")
	assert.Contains(t, sampler(0).Description(), "AlwaysOff")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}
