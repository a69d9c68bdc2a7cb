package app

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// StartWorker registers the periodic jobs and starts consuming the task queue
func (a *Application) StartWorker(ctx context.Context) error {
	if err := a.ReportTasks.RegisterCron(a.Cron, a.Config.Cron.PDFCleanupSchedule); err != nil {
		return err
	}
	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}
	if err := a.Cron.Start(ctx); err != nil {
		_ = a.Scheduler.Stop(ctx)
		return err
	}
	a.Logger.Info("Worker started",
		zap.String("backend", a.Config.Tasks.Backend),
		zap.Int("concurrency", a.Config.Tasks.Concurrency),
	)
	return nil
}

// StopWorker stops the cron runner first so no new work is queued, then
// drains the task workers
func (a *Application) StopWorker(ctx context.Context) error {
	return errors.Join(a.Cron.Stop(ctx), a.Scheduler.Stop(ctx))
}
