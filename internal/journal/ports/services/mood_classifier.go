// Package services defines service interfaces for the journal service.
package services

import (
	"context"
	"time"

	"mindmapr/internal/journal/domain/entities"
)

// MoodClassifier определяет настроение текста записи.
// Никогда не возвращает ошибку: при любой неудаче отдает entities.FallbackMood().
type MoodClassifier interface {
	Classify(ctx context.Context, text string) entities.MoodResult
}

// ResultCache хранит проверенные результаты классификации.
// Промах кэша возвращает ("", nil).
type ResultCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
