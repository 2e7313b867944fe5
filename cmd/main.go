package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oduppinsjr/rapid-web-ai/internal/events"
	"github.com/oduppinsjr/rapid-web-ai/internal/generator"
	"github.com/oduppinsjr/rapid-web-ai/internal/handler"
	mid "github.com/oduppinsjr/rapid-web-ai/internal/middleware"
	"github.com/oduppinsjr/rapid-web-ai/internal/repository"
	"github.com/oduppinsjr/rapid-web-ai/internal/seed"
	"github.com/oduppinsjr/rapid-web-ai/internal/tracing"
	"github.com/oduppinsjr/rapid-web-ai/pkg/config"
	"github.com/oduppinsjr/rapid-web-ai/pkg/database"
	"github.com/oduppinsjr/rapid-web-ai/pkg/jwtutil"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"github.com/oduppinsjr/rapid-web-ai/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+appConfig.ServiceName, appConfig.LogConfig()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	shutdownTracing, err := tracing.Setup(appConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig.Metrics.Prefix)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(appConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	store := repository.NewGormStore(db)
	log.Info("Database connection established")

	if appConfig.SeedTemplates {
		if _, err := seed.Templates(ctx, store, log); err != nil {
			log.Fatal("Failed to seed templates", zap.Error(err))
		}
	}

	// Rate limiter backend, optional
	var rateCounter mid.Counter
	if appConfig.Redis.Enabled() {
		redisClient, err := database.NewRedis(appConfig.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		rateCounter = redisClient
		log.Info("Rate limiting enabled",
			zap.String("redis_addr", appConfig.Redis.Addr()),
			zap.Int("requests_per_minute", appConfig.RateLimit.RequestsPerMinute))
	} else {
		log.Warn("REDIS_HOST not set, AI rate limiting disabled")
	}

	// Event bus, optional
	var publisher events.Publisher = events.NoopPublisher{}
	if appConfig.NATS.URL != "" {
		natsPublisher, err := events.NewNatsPublisher(appConfig.NATS.URL, appConfig.ServiceName, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		log.Info("Event publishing enabled", zap.String("nats_url", appConfig.NATS.URL))
	}

	tokens := jwtutil.NewJWTUtil(&appConfig.JWT)
	gen := generator.NewOpenAIGenerator(appConfig.OpenAI)
	h := handler.New(store, gen, publisher, appConfig.Quota)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(mid.TracingMiddleware(appConfig.ServiceName))
	e.Use(logger.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.RegisterRoutes(e, handler.RouteOptions{
		Auth:        mid.NewAuthenticator(tokens, store),
		AdminKey:    appConfig.Admin.APIKey,
		RateCounter: rateCounter,
		RateLimit:   appConfig.RateLimit,
		BodyLimit:   appConfig.Server.BodyLimit,
	})

	// Start server
	port := appConfig.Server.Port
	go func() {
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Tracer shutdown error", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
