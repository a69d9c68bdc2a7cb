package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronJob is a periodic job. Its error is logged, never retried.
type CronJob func(ctx context.Context) error

// CronRunner runs periodic jobs on standard 5-field cron schedules.
type CronRunner struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	baseCtx   context.Context
	cancel    context.CancelFunc
	isRunning bool
}

// NewCronRunner creates an idle runner
func NewCronRunner(logger *zap.Logger) *CronRunner {
	cl := cronLogger{logger: logger.Sugar()}
	return &CronRunner{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		baseCtx: context.Background(),
	}
}

// Add schedules job under name. The schedule is validated right away.
func (r *CronRunner) Add(schedule, name string, job CronJob) (cron.EntryID, error) {
	id, err := r.cron.AddFunc(schedule, func() {
		ctx := r.context()
		start := time.Now()
		if err := job(ctx); err != nil {
			r.logger.Error("Cron job failed", zap.String("job", name), zap.Error(err))
			return
		}
		r.logger.Info("Cron job finished",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: cron schedule %q for %s: %v", ErrInvalidConfig, schedule, name, err)
	}
	r.logger.Info("Cron job registered", zap.String("job", name), zap.String("schedule", schedule))
	return id, nil
}

// Entries returns the registered entries
func (r *CronRunner) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *CronRunner) context() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.baseCtx
}

// Start begins firing jobs. Jobs receive a context cancelled by Stop.
func (r *CronRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		return nil
	}
	r.baseCtx, r.cancel = context.WithCancel(ctx)
	r.isRunning = true
	r.cron.Start()
	r.logger.Info("Cron runner started", zap.Int("jobs", len(r.cron.Entries())))
	return nil
}

// Stop halts the schedule and waits for running jobs, bounded by ctx
func (r *CronRunner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	cancel := r.cancel
	r.mu.Unlock()

	done := r.cron.Stop()
	cancel()

	select {
	case <-done.Done():
		r.logger.Info("Cron runner stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("Cron runner stop timed out")
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
