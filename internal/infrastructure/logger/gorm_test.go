package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(cfg GormConfig) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), cfg), recorded
}

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	g, _ := newObservedGorm(GormConfig{Level: gormlogger.Info})

	changed, ok := g.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Error, changed.cfg.Level)
	assert.Equal(t, gormlogger.Info, g.cfg.Level)
	assert.Equal(t, 200*time.Millisecond, g.cfg.SlowThreshold)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-5")

	t.Run("error", func(t *testing.T) {
		g, recorded := newObservedGorm(GormConfig{Level: gormlogger.Warn})
		g.Trace(ctx, time.Now(), sqlFn("SELECT 1", 0), errors.New("connection refused"))

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "req-5", entry.ContextMap()["request_id"])
	})

	t.Run("record not found is quiet", func(t *testing.T) {
		g, recorded := newObservedGorm(GormConfig{Level: gormlogger.Warn})
		g.Trace(ctx, time.Now(), sqlFn("SELECT * FROM payments", 0), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())

		g, recorded = newObservedGorm(GormConfig{Level: gormlogger.Warn, LogNotFound: true})
		g.Trace(ctx, time.Now(), sqlFn("SELECT * FROM payments", 0), gormlogger.ErrRecordNotFound)
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("slow", func(t *testing.T) {
		g, recorded := newObservedGorm(GormConfig{Level: gormlogger.Warn, SlowThreshold: time.Millisecond})
		g.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT pg_sleep(1)", 1), nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "slow sql", recorded.All()[0].Message)
	})

	t.Run("info logs queries at debug", func(t *testing.T) {
		g, recorded := newObservedGorm(GormConfig{Level: gormlogger.Info})
		g.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.DebugLevel, recorded.All()[0].Level)
	})

	t.Run("silent", func(t *testing.T) {
		g, recorded := newObservedGorm(GormConfig{Level: gormlogger.Silent})
		g.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}
