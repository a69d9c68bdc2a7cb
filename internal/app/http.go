package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/infrastructure/logger"
	"github.com/kkambbaki/backend/internal/interfaces/http/dto"
	"github.com/kkambbaki/backend/internal/interfaces/http/handler"
	"github.com/kkambbaki/backend/internal/interfaces/http/middleware"
	"github.com/kkambbaki/backend/internal/interfaces/http/router"
)

// HTTP is the API engine plus the resources it owns
type HTTP struct {
	Engine      *gin.Engine
	rateLimiter *middleware.RateLimiter
}

// Stop releases background resources of the middleware stack
func (h *HTTP) Stop() {
	if h.rateLimiter != nil {
		h.rateLimiter.Stop()
	}
}

// NewHTTP builds the gin engine with the full middleware stack and every route
func (a *Application) NewHTTP() (*HTTP, error) {
	cfg := a.Config
	log := a.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	metricsMw, err := middleware.HTTPMetrics(a.Telemetry.Meter.Meter("kkambbaki/http"))
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.SpanEnricher(),
		metricsMw,
		middleware.CORSWithConfig(cors),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	h := &HTTP{Engine: engine}
	if cfg.HTTP.RateLimitEnabled {
		h.rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(h.rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	jwtCfg := middleware.JWTMiddlewareConfig{
		JWTService:     a.JWT,
		TokenBlacklist: a.Blacklist,
		Logger:         log,
	}
	jwt := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)
	guards := router.Guards{
		JWT:        jwt,
		JWTOrBot:   middleware.JWTOrBotAuth(jwtCfg, a.BotTokens),
		ActiveUser: middleware.RequireActiveUser(a.Users, log),
	}

	system := handler.NewSystemHandler(cfg.App.Name, a.healthChecks())
	engine.GET("/health", system.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwt),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Resource not found", c.GetString(middleware.RequestIDKey)))
	})

	router.NewRouter(engine).
		RegisterAPI(router.Handlers{
			Auth:    handler.NewAuthHandler(a.Auth),
			User:    handler.NewUserHandler(a.Users),
			Game:    handler.NewGameHandler(a.Sessions),
			Ranking: handler.NewRankingHandler(a.Rankings),
			Report:  handler.NewReportHandler(a.Reports),
			System:  system,
		}, guards).
		Setup()

	return h, nil
}

// NewServer wraps the engine with the configured timeouts
func (a *Application) NewServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:           ":" + a.Config.App.Port,
		Handler:        h,
		ReadTimeout:    a.Config.HTTP.ReadTimeout,
		WriteTimeout:   a.Config.HTTP.WriteTimeout,
		IdleTimeout:    a.Config.HTTP.IdleTimeout,
		MaxHeaderBytes: a.Config.HTTP.MaxHeaderBytes,
	}
}

func (a *Application) healthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{
		"database": a.DB.Ping,
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
