package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"boxoffice/api/routes"
	"boxoffice/internal/activity"
	"boxoffice/internal/gateway"
	"boxoffice/internal/session"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/constants"
	"boxoffice/internal/shared/middleware"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
	"boxoffice/pkg/ratelimit"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Smart environment loading
	envLoaded := godotenv.Load() == nil

	// Load config
	cfg := config.Load()

	// Set Gin mode (debug/release) before the logger picks its handler
	gin.SetMode(cfg.GinMode)
	appLogger := logger.New()
	logger.SetDefault(appLogger)

	if envLoaded {
		appLogger.Info("Development environment: loaded .env file")
	} else if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
		appLogger.Info("Production environment: using container environment variables")
	} else {
		appLogger.Info("No .env file found, using system environment variables")
	}

	// Redis backs sessions, the event cache and the rate limiter when configured
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client, err := cache.Connect(context.Background(), cache.Config{
			Address:  cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Redis unavailable, falling back to in-memory sessions", slog.Any("error", err))
		} else {
			redisClient = client
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", slog.String("addr", cfg.Redis.Addr))
		}
	}

	var (
		sessions     session.Provider
		cacheService cache.Service
		rateLimiter  *ratelimit.RateLimiter
	)
	if redisClient != nil {
		sessions = session.NewRedisProvider(redisClient, cfg.Session.TTL)
		cacheService = cache.NewService(redisClient, appLogger)
	} else {
		sessions = session.NewMemoryProvider(cfg.Session.TTL)
	}

	// Initialize Rate Limiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		rateLimiter = ratelimit.NewRateLimiter(redisClient, &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			KeyPrefix:       constants.RATE_LIMIT_KEY_PREFIX,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			HealthRequests:  cfg.RateLimit.HealthRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Activity stream
	var publisher activity.Publisher = activity.NopPublisher{}
	var publisherErr error
	switch cfg.ActivityBroker() {
	case config.BrokerKafka:
		kafkaCfg := activity.DefaultKafkaProducerConfig()
		kafkaCfg.Brokers = cfg.Kafka.Brokers
		kafkaCfg.Topic = cfg.Kafka.ActivityTopic
		kafkaCfg.RetryMax = cfg.Kafka.RetryMax
		kafkaCfg.Timeout = cfg.Kafka.Timeout

		var kafkaPublisher *activity.KafkaPublisher
		if kafkaPublisher, publisherErr = activity.NewKafkaPublisher(kafkaCfg, appLogger); publisherErr == nil {
			publisher = kafkaPublisher
		}
	case config.BrokerAMQP:
		var amqpPublisher *activity.AMQPPublisher
		if amqpPublisher, publisherErr = activity.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.ActivityQueue, appLogger); publisherErr == nil {
			publisher = amqpPublisher
		}
	}
	if publisherErr != nil {
		appLogger.Error("Failed to initialize activity publisher",
			slog.String("broker", cfg.ActivityBroker()), slog.Any("error", publisherErr))
		appLogger.Info("Continuing without activity stream")
	} else if cfg.ActivityEnabled() {
		appLogger.Info("Activity stream enabled", slog.String("broker", cfg.ActivityBroker()))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Error stopping activity publisher", slog.Any("error", err))
		}
	}()

	// Every request gets a per-session copy of this gateway
	gw := gateway.New(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout}, nil, appLogger)

	router := setupRouter(cfg, routes.Dependencies{
		Gateway:   gw,
		Sessions:  sessions,
		Cache:     cacheService,
		Publisher: publisher,
		Logger:    appLogger,
	}, rateLimiter)

	// HTTP server
	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("backend", cfg.Backend.BaseURL),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("redis", redisClient != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
			slog.String("activity_stream", cfg.ActivityBroker()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, deps routes.Dependencies, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := deps.Logger

	// Built-in middleware: tags and logs requests, recovers from panics
	engine.Use(middleware.RequestID(), middleware.RequestLogger(appLogger), gin.Recovery())

	// Global rate limiting middleware (applied to all routes)
	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter, appLogger))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	// Initialize and setup routes
	appRouter := routes.NewRouter(cfg, deps)
	appRouter.SetupRoutes(engine)

	return engine
}
