package cache

import (
	"fmt"

	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReportCacheFactory creates the report cache based on configuration
type ReportCacheFactory struct {
	redisConfig           config.RedisConfig
	reportConfig          config.ReportConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReportCacheFactoryOption is a functional option for configuring the factory
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory.
// Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReportCacheFactory creates a new factory
func NewReportCacheFactory(redisCfg config.RedisConfig, reportCfg config.ReportConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:           redisCfg,
		reportConfig:          reportCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory cache (if fallback is allowed).
func (f *ReportCacheFactory) CreateCache() (ReportCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, caching reports in memory")
		return NewInMemoryReportCache(f.reportConfig.CacheTTL), nil
	}

	c, err := NewRedisReportCache(f.redisConfig, f.reportConfig.CacheTTL)
	if err == nil {
		f.logger.Info("Using Redis report cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for report cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory report cache. "+
		"Cached reports are not shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryReportCache(f.reportConfig.CacheTTL), nil
}
