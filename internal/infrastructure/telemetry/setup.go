package telemetry

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

// Providers groups the three signal providers of a process.
type Providers struct {
	Tracer  *TracerProvider
	Meter   *MeterProvider
	Logs    *LoggerProvider
	Metrics *AppMetrics
	// Logger is the base logger bridged to the collector when enabled
	Logger *zap.Logger
}

// Setup initializes traces, metrics and logs from configuration.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	tp, err := NewTracerProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	mp, err := NewMeterProvider(ctx, cfg, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	lp, err := NewLoggerProvider(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	metrics, err := NewAppMetrics(mp.Meter(TracerName))
	if err != nil {
		return nil, err
	}
	return &Providers{
		Tracer:  tp,
		Meter:   mp,
		Logs:    lp,
		Metrics: metrics,
		Logger:  lp.Bridge(logger),
	}, nil
}

// Shutdown flushes and stops every provider
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Tracer.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Logs.Shutdown(ctx),
	)
}
