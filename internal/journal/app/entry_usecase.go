package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/ports/repositories"
	"mindmapr/internal/journal/ports/services"
	"mindmapr/pkg/logger"
)

// EntryUseCase управляет созданием записей и проверяет владельца при изменении.
type EntryUseCase struct {
	entryRepo  repositories.EntryRepository
	classifier services.MoodClassifier
}

var _ services.EntryService = (*EntryUseCase)(nil)

// NewEntryUseCase создает новый экземпляр EntryUseCase.
func NewEntryUseCase(entryRepo repositories.EntryRepository, classifier services.MoodClassifier) *EntryUseCase {
	return &EntryUseCase{
		entryRepo:  entryRepo,
		classifier: classifier,
	}
}

// CreateEntry классифицирует текст и сохраняет запись пользователя.
// Пустой текст отклоняется до обращения к классификатору.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, userID, content string) (*entities.Entry, error) {
	log := logger.Log(ctx).With(zap.String("method", "EntryUseCase.CreateEntry"))

	if strings.TrimSpace(content) == "" {
		return nil, validationError(msgContentRequired)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, validationError(msgOwnerRequired)
	}

	mood := uc.classifier.Classify(ctx, content)
	log.Debug(ctx, "entry classified",
		zap.String("mood", string(mood.Label)),
		zap.Float64("confidence", mood.Confidence))

	entry, err := uc.entryRepo.Insert(ctx, entities.NewEntry(userID, content, mood))
	if err != nil {
		if errors.Is(err, entities.ErrInvalidEntry) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	return entry, nil
}

// GetEntry возвращает запись, если она принадлежит пользователю.
func (uc *EntryUseCase) GetEntry(ctx context.Context, userID, entryID string) (*entities.Entry, error) {
	return uc.ownedEntry(ctx, userID, entryID)
}

// UpdateEntry заменяет текст записи. Пустой текст оставляет запись без изменений.
// Настроение при обновлении не пересчитывается.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, userID, entryID, content string) (*entities.Entry, error) {
	entry, err := uc.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return entry, nil
	}

	updated, err := uc.entryRepo.Update(ctx, entry.ID, content)
	if err != nil {
		if errors.Is(err, entities.ErrEntryNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	return updated, nil
}

// DeleteEntry удаляет запись пользователя.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, userID, entryID string) error {
	entry, err := uc.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}

	if err := uc.entryRepo.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, entities.ErrEntryNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	return nil
}

// ownedEntry загружает запись и скрывает чужие записи за ErrNotFound.
func (uc *EntryUseCase) ownedEntry(ctx context.Context, userID, entryID string) (*entities.Entry, error) {
	log := logger.Log(ctx).With(zap.String("method", "EntryUseCase.ownedEntry"), zap.String("entryID", entryID))

	if strings.TrimSpace(userID) == "" || !validEntryID(entryID) {
		return nil, ErrNotFound
	}

	entry, err := uc.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, entities.ErrEntryNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	if !entry.OwnedBy(userID) {
		log.Debug(ctx, "entry belongs to another user")
		return nil, ErrNotFound
	}

	return entry, nil
}
