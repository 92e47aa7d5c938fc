package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/erp/proposals/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin on db and tags statements
// slower than the configured threshold on their span.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, tp trace.TracerProvider, logger *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(db.Dialector.Name()),
		otelgorm.WithTracerProvider(tp),
	}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	if err := registerSlowQueryCallbacks(db, threshold); err != nil {
		return err
	}

	logger.Info("database tracing enabled",
		zap.Bool("full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		markSlowQuery(tx, threshold)
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:start_create", before),
		cb.Create().After("gorm:create").Register("telemetry:slow_create", after),
		cb.Query().Before("gorm:query").Register("telemetry:start_query", before),
		cb.Query().After("gorm:query").Register("telemetry:slow_query", after),
		cb.Update().Before("gorm:update").Register("telemetry:start_update", before),
		cb.Update().After("gorm:update").Register("telemetry:slow_update", after),
		cb.Delete().Before("gorm:delete").Register("telemetry:start_delete", before),
		cb.Delete().After("gorm:delete").Register("telemetry:slow_delete", after),
		cb.Raw().Before("gorm:raw").Register("telemetry:start_raw", before),
		cb.Raw().After("gorm:raw").Register("telemetry:slow_raw", after),
	)
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= threshold {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		attribute.String("db.sql.table", tx.Statement.Table),
	)
}
