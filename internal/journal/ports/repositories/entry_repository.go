// Package repositories defines repository interfaces for the journal service.
package repositories

import (
	"context"

	"mindmapr/internal/journal/domain/entities"
)

// SortOrder задает направление сортировки по created_at.
type SortOrder int

// Направления сортировки.
const (
	SortNewestFirst SortOrder = iota
	SortOldestFirst
)

// EntryFilter описывает предикаты выборки. Пустые поля не участвуют в фильтре.
type EntryFilter struct {
	UserID string
	Mood   entities.Mood
	Search string
}

// EntryRepository определяет хранилище записей дневника.
// Insert, Update и Delete атомарны на уровне одной записи.
type EntryRepository interface {
	Insert(ctx context.Context, entry *entities.Entry) (*entities.Entry, error)
	FindByID(ctx context.Context, entryID string) (*entities.Entry, error)
	// FindMany возвращает записи по фильтру; limit <= 0 означает выборку без ограничения.
	FindMany(ctx context.Context, filter EntryFilter, sort SortOrder, skip, limit int) ([]*entities.Entry, error)
	Count(ctx context.Context, filter EntryFilter) (int, error)
	Update(ctx context.Context, entryID, content string) (*entities.Entry, error)
	Delete(ctx context.Context, entryID string) error
}
