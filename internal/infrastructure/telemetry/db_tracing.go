package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables in spans (dev only)
	SlowQueryThresh time.Duration // default: 200ms
	DBSystem        string        // "postgresql" or "sqlite"
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin on db together with
// callbacks that flag slow and failed statements on the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSpan(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("crm_timing:before_create", before) },
		func() error { return cb.Query().Before("gorm:query").Register("crm_timing:before_query", before) },
		func() error { return cb.Update().Before("gorm:update").Register("crm_timing:before_update", before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("crm_timing:before_delete", before) },
		func() error { return cb.Row().Before("gorm:row").Register("crm_timing:before_row", before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("crm_timing:before_raw", before) },
		func() error { return cb.Create().After("gorm:create").Register("crm_timing:after_create", after) },
		func() error { return cb.Query().After("gorm:query").Register("crm_timing:after_query", after) },
		func() error { return cb.Update().After("gorm:update").Register("crm_timing:after_update", after) },
		func() error { return cb.Delete().After("gorm:delete").Register("crm_timing:after_delete", after) },
		func() error { return cb.Row().After("gorm:row").Register("crm_timing:after_row", after) },
		func() error { return cb.Raw().After("gorm:raw").Register("crm_timing:after_raw", after) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	// the plugin goes last so its span is still open when markSpan runs
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
		zap.String("db_system", cfg.DBSystem),
	)
	return nil
}

// markSpan annotates the statement span with duration, slow flag and error status
func markSpan(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		elapsed := time.Since(start)
		span.SetAttributes(attribute.Int64("db.duration_ms", elapsed.Milliseconds()))
		if elapsed >= threshold {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
		}
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(AttrDBTable.String(tx.Statement.Table))
	}

	if err := tx.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
