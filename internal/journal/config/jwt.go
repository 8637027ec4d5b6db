package config

// JWTConfig содержит секрет для проверки access токенов.
// Значения по умолчанию нет: без секрета сервис не стартует.
type JWTConfig struct {
	SecretKey string `yaml:"secret_key" env:"JOURNAL_JWT_SECRET_KEY" env-required:"true"`
}
