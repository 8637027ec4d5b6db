package services

import (
	"context"

	"mindmapr/internal/journal/domain/entities"
)

// EntryService создает записи и изменяет их от имени владельца.
type EntryService interface {
	CreateEntry(ctx context.Context, userID, content string) (*entities.Entry, error)
	GetEntry(ctx context.Context, userID, entryID string) (*entities.Entry, error)
	UpdateEntry(ctx context.Context, userID, entryID, content string) (*entities.Entry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// QueryService выдает записи одного пользователя.
type QueryService interface {
	ListEntries(ctx context.Context, userID string, params entities.ListParams) (*entities.EntryPage, error)
	ListAllEntries(ctx context.Context, userID string) ([]*entities.Entry, error)
}
