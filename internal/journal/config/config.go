// Package config содержит конфигурацию для сервиса дневника.
package config

import (
	"context"
	"fmt"
	"os"

	pkgconfig "mindmapr/pkg/config"
	"mindmapr/pkg/logger"

	"go.uber.org/zap"
)

// EnvConfigFile - необязательный .env файл с настройками сервиса.
const EnvConfigFile = "JOURNAL_CONFIG_FILE"

const serviceName = "journal"

// Константы ошибок и сообщений для конфигурации.
const (
	LogLoadingConfig    = "Loading journal service configuration"
	LogConfigLoaded     = "Configuration loaded successfully"
	ErrFailedLoadConfig = "Failed to load configuration"
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	Postgres   PostgresConfig   `yaml:"postgres"`
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Logging    LoggingConfig    `yaml:"logging"`
	Shutdown   ShutdownConfig   `yaml:"shutdown"`
	JWT        JWTConfig        `yaml:"jwt"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Redis      RedisConfig      `yaml:"redis"`
	Query      QueryConfig      `yaml:"query"`
}

// Load загружает конфигурацию из переменных окружения и файла JOURNAL_CONFIG_FILE.
func Load(ctx context.Context) (*Config, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogLoadingConfig)

	cfg, err := pkgconfig.Load[Config](ctx, serviceName, os.Getenv(EnvConfigFile))
	if err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("grpc_address", cfg.GRPC.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout),
		zap.String("classifier_model", cfg.Classifier.Model),
		zap.Bool("classifier_configured", cfg.Classifier.Configured()),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Int("query_max_limit", cfg.Query.MaxLimit))

	return cfg, nil
}
