package config

// QueryConfig ограничивает размер страницы выборки.
type QueryConfig struct {
	MaxLimit int `yaml:"max_limit" env:"JOURNAL_QUERY_MAX_LIMIT" env-default:"100"`
}
