// Package main реализует точку входа сервиса дневника MindMapr.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"mindmapr/internal/journal/adapters/cache"
	"mindmapr/internal/journal/adapters/classifier"
	"mindmapr/internal/journal/adapters/grpc"
	journalhttp "mindmapr/internal/journal/adapters/http"
	"mindmapr/internal/journal/adapters/postgres"
	"mindmapr/internal/journal/adapters/services"
	"mindmapr/internal/journal/app"
	"mindmapr/internal/journal/config"
	"mindmapr/internal/journal/db"
	"mindmapr/internal/journal/metrics"
	portservices "mindmapr/internal/journal/ports/services"
	"mindmapr/pkg/db/redis"
	"mindmapr/pkg/logger"
	"mindmapr/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode     = "JOURNAL_LOGGER_MODE"
	EnvLoggerLevel    = "JOURNAL_LOGGER_LEVEL"
	EnvMigrationsPath = "JOURNAL_MIGRATIONS_PATH"

	defaultMigrationsPath = "migrations/entries"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "redis is unavailable, classification cache disabled"
	ErrStartHTTP            = "failed to start HTTP server"
	ErrStartGRPC            = "failed to start gRPC server"
	ErrCloseRedis           = "failed to close redis client"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "journal service started"
	LogServiceShutdownDone = "journal service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing redis client"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingGRPC        = "stopping gRPC server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStartingGRPC        = "starting gRPC health server"
	LogClassifierDisabled  = "classifier API key is not set, every entry gets the neutral mood"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		migrationsPath := os.Getenv(EnvMigrationsPath)
		if migrationsPath == "" {
			migrationsPath = defaultMigrationsPath
		}

		database, err := db.New(ctx, &cfg.Postgres, migrationsPath)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		// servers останавливаются раньше, чем закрываются resources.
		var servers []shutdown.Hook
		resources := []shutdown.Hook{
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
		}

		var resultCache portservices.ResultCache
		if cfg.Redis.Enabled {
			client, err := redis.NewClient(ctx, redis.Config{
				Addr:     cfg.Redis.GetAddress(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				PoolSize: cfg.Redis.PoolSize,
				Timeout:  cfg.Redis.Timeout,
			})
			if err != nil {
				log.Warn(ctx, ErrInitRedis, zap.Error(err))
			} else {
				resultCache = cache.NewRedisCache(client, cfg.Redis.CacheTTL)
				resources = append(resources, func(ctx context.Context) error {
					log.Info(ctx, LogClosingRedis)
					if err := client.Close(); err != nil {
						return fmt.Errorf("%s: %w", ErrCloseRedis, err)
					}
					return nil
				})
			}
		}

		journalMetrics := metrics.New()

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		entryRepo := repoFactory.EntryRepository()

		log.Info(ctx, LogInitServices)
		tokenService := services.NewJWT(cfg.JWT.SecretKey)
		if !cfg.Classifier.Configured() {
			log.Warn(ctx, LogClassifierDisabled)
		}
		moodClassifier := classifier.New(&cfg.Classifier, resultCache, cfg.Redis.CacheTTL, journalMetrics)

		log.Info(ctx, LogInitUseCases)
		entryUseCase := app.NewEntryUseCase(entryRepo, moodClassifier)
		queryUseCase := app.NewQueryUseCase(entryRepo, cfg.Query.MaxLimit)

		log.Info(ctx, LogInitHTTPServer)
		httpApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})
		journalhttp.SetupRouter(httpApp, journalhttp.Dependencies{
			Entries:  entryUseCase,
			Queries:  queryUseCase,
			Tokens:   tokenService,
			Metrics:  journalMetrics,
			Store:    database,
			MaxLimit: cfg.Query.MaxLimit,
		})

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := httpApp.Listen(cfg.HTTP.GetAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, ErrStartHTTP, zap.Error(err))
			}
		}()
		servers = append(servers, func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return httpApp.ShutdownWithContext(ctx)
		})

		log.Info(ctx, LogStartingGRPC)
		grpcServer := grpc.New(&cfg.GRPC, database)
		if err := grpcServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartGRPC, zap.Error(err))
			exitCode = 1
			shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), shutdown.Stages(servers, resources))
			return
		}
		servers = append(servers, func(ctx context.Context) error {
			log.Info(ctx, LogStoppingGRPC)
			grpcServer.Stop(ctx)
			return nil
		})

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(), shutdown.Stages(servers, resources))

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
