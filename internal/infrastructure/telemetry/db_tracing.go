package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled    bool
	DBSystem   string // defaults to "postgresql"
	LogFullSQL bool   // include query variables in spans; dev only
}

// RegisterDBTracing installs the otelgorm plugin on db plus a callback that
// annotates each statement span with its table and row count.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}

	// annotations run ahead of otelgorm's own after-callbacks, which end the span
	cb := db.Callback()
	registrations := []error{
		cb.Create().After("gorm:create").Register("ledger_trace:create", annotateStatement),
		cb.Query().After("gorm:query").Register("ledger_trace:query", annotateStatement),
		cb.Update().After("gorm:update").Register("ledger_trace:update", annotateStatement),
		cb.Delete().After("gorm:delete").Register("ledger_trace:delete", annotateStatement),
		cb.Raw().After("gorm:raw").Register("ledger_trace:raw", annotateStatement),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
	)
	return nil
}

func annotateStatement(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}
