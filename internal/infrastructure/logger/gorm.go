package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig tunes the GORM adapter
type GormConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// LogNotFound reports gorm.ErrRecordNotFound as an error; lookups of
	// missing payments are routine so it is off by default.
	LogNotFound bool
}

// GormLogger routes GORM logs to zap
type GormLogger struct {
	logger *zap.Logger
	cfg    GormConfig
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(l *zap.Logger, cfg GormConfig) *GormLogger {
	if cfg.SlowThreshold == 0 {
		cfg.SlowThreshold = 200 * time.Millisecond
	}
	return &GormLogger{logger: l.Named("gorm"), cfg: cfg}
}

// LogMode implements gormlogger.Interface
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.cfg.Level = level
	return &cp
}

// Info implements gormlogger.Interface
func (g *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if g.cfg.Level >= gormlogger.Info {
		g.with(ctx).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (g *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if g.cfg.Level >= gormlogger.Warn {
		g.with(ctx).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (g *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if g.cfg.Level >= gormlogger.Error {
		g.with(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.cfg.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	l := g.with(ctx)

	switch {
	case err != nil && g.cfg.Level >= gormlogger.Error:
		if !g.cfg.LogNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		l.Error("sql error", append(fields, zap.Error(err))...)
	case elapsed > g.cfg.SlowThreshold && g.cfg.Level >= gormlogger.Warn:
		l.Warn("slow sql", append(fields, zap.Duration("threshold", g.cfg.SlowThreshold))...)
	case g.cfg.Level >= gormlogger.Info:
		l.Debug("sql", fields...)
	}
}

func (g *GormLogger) with(ctx context.Context) *zap.Logger {
	if id := RequestID(ctx); id != "" {
		return g.logger.With(zap.String("request_id", id))
	}
	return g.logger
}

// GormLevel maps a log level name to the GORM level
func GormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
