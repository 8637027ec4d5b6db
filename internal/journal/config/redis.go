package config

import (
	"strconv"
	"time"
)

// RedisConfig представляет конфигурацию кэша результатов классификации.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"JOURNAL_REDIS_ENABLED" env-default:"false"`
	Host     string        `yaml:"host" env:"JOURNAL_REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"JOURNAL_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"JOURNAL_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"JOURNAL_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"JOURNAL_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"JOURNAL_REDIS_TIMEOUT" env-default:"3s"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"JOURNAL_REDIS_CACHE_TTL" env-default:"24h"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
