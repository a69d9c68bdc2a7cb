package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus slow query marking.
// It is a no-op unless both telemetry and DB tracing are enabled.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	thresh := cfg.DBSlowQueryThresh
	if thresh <= 0 {
		thresh = defaultSlowQueryThreshold
	}
	if err := registerSlowQueryCallbacks(db, thresh); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", thresh),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, thresh time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSlowQuery(tx, thresh) }

	cb := db.Callback()
	steps := []error{
		cb.Create().Before("gorm:create").Register("kkb_timing:before_create", before),
		cb.Create().After("gorm:create").Register("kkb_timing:after_create", after),
		cb.Query().Before("gorm:query").Register("kkb_timing:before_query", before),
		cb.Query().After("gorm:query").Register("kkb_timing:after_query", after),
		cb.Update().Before("gorm:update").Register("kkb_timing:before_update", before),
		cb.Update().After("gorm:update").Register("kkb_timing:after_update", after),
		cb.Delete().Before("gorm:delete").Register("kkb_timing:before_delete", before),
		cb.Delete().After("gorm:delete").Register("kkb_timing:after_delete", after),
		cb.Row().Before("gorm:row").Register("kkb_timing:before_row", before),
		cb.Row().After("gorm:row").Register("kkb_timing:after_row", after),
		cb.Raw().Before("gorm:raw").Register("kkb_timing:before_raw", before),
		cb.Raw().After("gorm:raw").Register("kkb_timing:after_raw", after),
	}
	return errors.Join(steps...)
}

func markSlowQuery(tx *gorm.DB, thresh time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > thresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
