package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/kkambbaki/backend/docs"
	"github.com/kkambbaki/backend/internal/app"
	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

//	@title			깜빡이 API
//	@version		1.0
//	@description	아동 집중력 게임 세션, 랭킹, 집중력 리포트 API
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	kkambbaki
//	@contact.url	https://github.com/kkambbaki/backend

//	@host		localhost:8000
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@securityDefinitions.apikey	BotToken
//	@in							header
//	@name						X-BOT-TOKEN
//	@description				Single-use report bot token

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

	log.Info("Starting kkambbaki backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	log = application.Logger

	api, err := application.NewHTTP()
	if err != nil {
		_ = application.Close(context.Background())
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	// The in-process worker lets a single binary serve small deployments
	if cfg.Tasks.WorkerEnabled {
		if err := application.StartWorker(ctx); err != nil {
			_ = application.Close(context.Background())
			log.Fatal("Failed to start worker", zap.Error(err))
		}
	}

	srv := application.NewServer(api.Engine)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		exitCode = 1
	}
	api.Stop()
	if cfg.Tasks.WorkerEnabled {
		if err := application.StopWorker(shutdownCtx); err != nil {
			log.Error("Worker stop failed", zap.Error(err))
		}
	}
	if err := application.Close(shutdownCtx); err != nil {
		log.Error("Error releasing resources", zap.Error(err))
	}

	log.Info("Server exited")
	if exitCode != 0 {
		_ = log.Sync()
		os.Exit(exitCode)
	}
}
