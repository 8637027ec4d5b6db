package postgres

import (
	"mindmapr/internal/journal/ports/repositories"
)

// RepositoryFactory создает репозитории для работы с базой данных.
type RepositoryFactory struct {
	db DBTX
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(db DBTX) *RepositoryFactory {
	return &RepositoryFactory{db: db}
}

// EntryRepository возвращает репозиторий для работы с записями дневника.
func (f *RepositoryFactory) EntryRepository() repositories.EntryRepository {
	return NewEntryRepository(f.db)
}
