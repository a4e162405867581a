// Package main is the entry point for the drama-catalog-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"drama-catalog-service/internal/catalog"
	"drama-catalog-service/internal/config"
	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/history"
	rediscache "drama-catalog-service/internal/infra/redis"
	"drama-catalog-service/internal/infra/source/registry"
	"drama-catalog-service/internal/infra/storage"
	"drama-catalog-service/internal/job"
	"drama-catalog-service/internal/logger"
	"drama-catalog-service/internal/transport/httpserver"
	"drama-catalog-service/internal/validator"
	"drama-catalog-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting drama-catalog-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Connect to Redis
	redisClient, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Create source adapters in their fixed combine order
	sources := registry.NewSources(cfg.Source, log.Logger)
	log.Info("sources registered", zap.Int("count", len(sources)))

	// Create cache implementation (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("list_ttl", cfg.Cache.ListTTL),
			zap.Duration("search_ttl", cfg.Cache.SearchTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	// Catalog client over all sources
	catalogSvc := catalog.NewService(sources, cache, cfg.Cache.ListTTL, cfg.Cache.SearchTTL, log.Logger)

	// Watch-history store on the configured backend
	var historyBackend domain.Storage
	switch cfg.History.Backend {
	case "file":
		historyBackend, err = storage.NewFileStorage(afero.NewOsFs(), cfg.History.Dir)
		if err != nil {
			log.Fatal("failed to initialize file storage", zap.Error(err))
		}
		log.Info("history backend: file", zap.String("dir", cfg.History.Dir))
	default:
		historyBackend = storage.NewRedisStorage(redisClient, cfg.Cache.KeyPrefix)
		log.Info("history backend: redis")
	}
	historyStore := history.NewStore(historyBackend, log.Logger, cfg.History.Key, cfg.History.Cap)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			AppName:   cfg.App.Name,
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
		},
		catalogSvc,
		historyStore,
		redisClient,
		v,
		log.Logger,
	)

	// Start refresh scheduler with distributed locking
	var scheduler *job.RefreshScheduler
	if cfg.Refresh.Enabled {
		scheduler = job.NewRefreshScheduler(
			catalogSvc,
			job.RefreshConfig{
				Interval:  cfg.Refresh.Interval,
				Timeout:   cfg.Refresh.Timeout,
				OnStartup: cfg.Refresh.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		scheduler.Start(cfg.Refresh.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
