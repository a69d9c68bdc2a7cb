// Command worker consumes the report task queue and runs the periodic jobs.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/app"
	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if cfg.Tasks.Backend != "redis" {
		log.Warn("A standalone worker only sees tasks through the redis backend",
			zap.String("backend", cfg.Tasks.Backend))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	log = application.Logger

	if err := application.StartWorker(ctx); err != nil {
		_ = application.Close(context.Background())
		log.Fatal("Failed to start worker", zap.Error(err))
	}

	<-ctx.Done()
	log.Info("Shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Tasks.JobTimeout+10*time.Second)
	defer cancel()

	if err := application.StopWorker(shutdownCtx); err != nil {
		log.Error("Worker stop failed", zap.Error(err))
	}
	if err := application.Close(shutdownCtx); err != nil {
		log.Error("Error releasing resources", zap.Error(err))
	}
	log.Info("Worker exited")
}
