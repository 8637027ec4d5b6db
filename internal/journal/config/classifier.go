package config

import (
	"strings"
	"time"
)

// ClassifierConfig содержит настройки внешнего классификатора настроения.
type ClassifierConfig struct {
	APIKey           string        `yaml:"api_key" env:"JOURNAL_CLASSIFIER_API_KEY" env-default:""`
	Model            string        `yaml:"model" env:"JOURNAL_CLASSIFIER_MODEL" env-default:"gemini-2.5-flash"`
	BaseURL          string        `yaml:"base_url" env:"JOURNAL_CLASSIFIER_BASE_URL" env-default:"https://generativelanguage.googleapis.com"`
	Timeout          time.Duration `yaml:"timeout" env:"JOURNAL_CLASSIFIER_TIMEOUT" env-default:"10s"`
	MaxAttempts      int           `yaml:"max_attempts" env:"JOURNAL_CLASSIFIER_MAX_ATTEMPTS" env-default:"2"`
	RetryDelay       time.Duration `yaml:"retry_delay" env:"JOURNAL_CLASSIFIER_RETRY_DELAY" env-default:"200ms"`
	BreakerThreshold int           `yaml:"breaker_threshold" env:"JOURNAL_CLASSIFIER_BREAKER_THRESHOLD" env-default:"5"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown" env:"JOURNAL_CLASSIFIER_BREAKER_COOLDOWN" env-default:"30s"`
}

// Configured сообщает, задан ли ключ доступа к провайдеру.
func (c *ClassifierConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// GetTimeout возвращает общий бюджет времени на классификацию.
func (c *ClassifierConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}
