package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

const metricsExportInterval = 60 * time.Second

// MeterProvider wraps the SDK meter provider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider creates the OTLP meter provider and installs it globally.
// A disabled config yields a no-op provider.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled {
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricsExportInterval))),
	)
	otel.SetMeterProvider(mp.provider)
	logger.Info("OpenTelemetry MeterProvider initialized", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return mp, nil
}

// Meter returns a named meter, falling back to the global provider
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return mp.provider.Meter(name)
}

// Shutdown flushes pending metrics
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Metric attribute keys
const (
	attrGame   = attribute.Key("game")
	attrTask   = attribute.Key("task")
	attrStatus = attribute.Key("status")
)

// AppMetrics records product level counters. A nil *AppMetrics is a no-op.
type AppMetrics struct {
	sessionsStarted  metric.Int64Counter
	sessionsFinished metric.Int64Counter
	reportsGenerated metric.Int64Counter
	adviceFailures   metric.Int64Counter
	emailsSent       metric.Int64Counter
	tasksProcessed   metric.Int64Counter
	taskDuration     metric.Float64Histogram
}

// NewAppMetrics registers the instruments on meter
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	m := &AppMetrics{}
	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.sessionsStarted, "kkb.game.sessions_started", "Game sessions started"},
		{&m.sessionsFinished, "kkb.game.sessions_finished", "Game sessions finished"},
		{&m.reportsGenerated, "kkb.report.generated", "Reports regenerated"},
		{&m.adviceFailures, "kkb.report.advice_failures", "Advice generations that fell back to the failure advice"},
		{&m.emailsSent, "kkb.mail.sent", "Emails handed to the mail sender"},
		{&m.tasksProcessed, "kkb.tasks.processed", "Background tasks processed"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("create counter %s: %w", c.name, err)
		}
	}
	m.taskDuration, err = meter.Float64Histogram("kkb.tasks.duration",
		metric.WithDescription("Background task run time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600),
	)
	if err != nil {
		return nil, fmt.Errorf("create histogram kkb.tasks.duration: %w", err)
	}
	return m, nil
}

// SessionStarted counts a started game session
func (m *AppMetrics) SessionStarted(ctx context.Context, gameCode string) {
	if m == nil {
		return
	}
	m.sessionsStarted.Add(ctx, 1, metric.WithAttributes(attrGame.String(gameCode)))
}

// SessionFinished counts a finished game session
func (m *AppMetrics) SessionFinished(ctx context.Context, gameCode string) {
	if m == nil {
		return
	}
	m.sessionsFinished.Add(ctx, 1, metric.WithAttributes(attrGame.String(gameCode)))
}

// ReportGenerated counts a completed report regeneration
func (m *AppMetrics) ReportGenerated(ctx context.Context) {
	if m == nil {
		return
	}
	m.reportsGenerated.Add(ctx, 1)
}

// AdviceFailed counts a failed advice generation
func (m *AppMetrics) AdviceFailed(ctx context.Context, gameCode string) {
	if m == nil {
		return
	}
	m.adviceFailures.Add(ctx, 1, metric.WithAttributes(attrGame.String(gameCode)))
}

// EmailSent counts an email delivery attempt by outcome
func (m *AppMetrics) EmailSent(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.emailsSent.Add(ctx, 1, metric.WithAttributes(attrStatus.String(outcome(success))))
}

// TaskProcessed records a task run
func (m *AppMetrics) TaskProcessed(ctx context.Context, task string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attrTask.String(task), attrStatus.String(outcome(err == nil)))
	m.tasksProcessed.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, d.Seconds(), attrs)
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
