//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisCache(t *testing.T, ttl time.Duration) *RedisReportCache {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	c, err := NewRedisReportCache(config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisReportCache_RoundTripAndInvalidate(t *testing.T) {
	c := newRedisCache(t, time.Minute)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	want := cachedSummary{TotalInflow: decimal.RequireFromString("9000.10"), Range: "thisMonth"}
	require.NoError(t, c.Set(ctx, alice, 0, "cashflow", want))
	require.NoError(t, c.Set(ctx, bob, 0, "cashflow", want))

	var got cachedSummary
	_, hit, err := c.Get(ctx, alice, "cashflow", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.True(t, want.TotalInflow.Equal(got.TotalInflow))

	require.NoError(t, c.InvalidateUser(ctx, alice))

	gen, hit, err := c.Get(ctx, alice, "cashflow", &got)
	require.NoError(t, err)
	assert.False(t, hit, "invalidated user misses")
	assert.Equal(t, int64(1), gen)

	_, hit, err = c.Get(ctx, bob, "cashflow", &got)
	require.NoError(t, err)
	assert.True(t, hit, "other users keep their reports")

	require.NoError(t, c.Set(ctx, alice, 0, "cashflow", want))
	_, hit, err = c.Get(ctx, alice, "cashflow", &got)
	require.NoError(t, err)
	assert.False(t, hit, "a write for the old generation is not served")

	require.NoError(t, c.Set(ctx, alice, gen, "cashflow", want))
	_, hit, err = c.Get(ctx, alice, "cashflow", &got)
	require.NoError(t, err)
	assert.True(t, hit, "new generation is writable")
}

func TestRedisReportCache_TTL(t *testing.T) {
	c := newRedisCache(t, time.Second)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, c.Set(ctx, userID, 0, "income", cachedSummary{Range: "today"}))
	time.Sleep(1500 * time.Millisecond)

	var got cachedSummary
	_, hit, err := c.Get(ctx, userID, "income", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
