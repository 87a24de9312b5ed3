package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"boxoffice/api/routes"
	"boxoffice/internal/notifications"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/ticketing"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// Hold scheduler: bounded pool of workers running expirations
	scheduler, err := ticketing.NewScheduler(cfg.Scheduler.Workers)
	if err != nil {
		appLogger.Error("failed to start hold scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer scheduler.Stop()

	store := ticketing.NewEventStore()
	service, err := ticketing.NewService(store, scheduler, ticketing.NewSequence(1), ticketing.NewSequence(1))
	if err != nil {
		appLogger.Error("failed to create ticketing service", slog.Any("error", err))
		os.Exit(1)
	}

	// Availability cache is optional; the core serves from snapshots either way
	var cacheService cache.Service
	if cfg.Redis.Enabled {
		client, err := cache.NewClient(cache.Config{
			Address:  cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Error("failed to connect to redis, continuing without cache", slog.Any("error", err))
		} else {
			defer client.Close()
			cacheService = cache.NewService(client)
			service.SetCacheService(cacheService)
			appLogger.Info("availability cache enabled", slog.String("addr", cfg.Redis.Addr()))
		}
	}

	// Lifecycle notifications are optional as well
	if cfg.Kafka.Enabled {
		kafkaConfig := notifications.DefaultKafkaConfig()
		kafkaConfig.Brokers = cfg.Kafka.Brokers
		kafkaConfig.Topic = cfg.Kafka.Topic

		publisher, err := notifications.NewKafkaPublisher(kafkaConfig)
		if err != nil {
			appLogger.Error("failed to connect to kafka, continuing without notifications", slog.Any("error", err))
		} else {
			defer func() {
				if err := publisher.Close(); err != nil {
					appLogger.Error("error closing lifecycle publisher", slog.Any("error", err))
				}
			}()
			service.SetPublisher(publisher)
			appLogger.Info("lifecycle notifications enabled", slog.Any("brokers", cfg.Kafka.Brokers))
		}
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router := routes.NewRouter(cfg, ticketing.NewController(service), cacheService, appLogger)
	router.SetupRoutes(engine)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("boxoffice listening",
			slog.String("addr", srv.Addr),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", slog.Any("error", err))
	}

	// deferred: scheduler drain, cache close, publisher close
	appLogger.Info("bye")
}
