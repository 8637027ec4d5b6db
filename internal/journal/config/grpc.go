package config

import (
	"fmt"
	"time"
)

// GRPCConfig конфигурация gRPC сервера проверки здоровья.
type GRPCConfig struct {
	Host           string        `yaml:"host" env:"JOURNAL_GRPC_HOST" env-default:"0.0.0.0"`
	Port           int           `yaml:"port" env:"JOURNAL_GRPC_PORT" env-default:"50054"`
	HealthInterval time.Duration `yaml:"health_interval" env:"JOURNAL_GRPC_HEALTH_INTERVAL" env-default:"15s"`
}

// GetAddress возвращает адрес для gRPC сервера.
func (g *GRPCConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}
