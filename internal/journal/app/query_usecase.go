package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/ports/repositories"
	"mindmapr/internal/journal/ports/services"
	"mindmapr/pkg/logger"
)

// QueryUseCase строит постраничные выборки записей одного пользователя.
type QueryUseCase struct {
	entryRepo repositories.EntryRepository
	maxLimit  int
}

var _ services.QueryService = (*QueryUseCase)(nil)

// NewQueryUseCase создает новый экземпляр QueryUseCase.
func NewQueryUseCase(entryRepo repositories.EntryRepository, maxLimit int) *QueryUseCase {
	if maxLimit <= 0 {
		maxLimit = entities.DefaultMaxLimit
	}
	return &QueryUseCase{
		entryRepo: entryRepo,
		maxLimit:  maxLimit,
	}
}

// ListEntries возвращает страницу записей пользователя и метаданные пагинации.
//
// Count и FindMany выполняются отдельными запросами без общего снимка:
// конкурентная вставка или удаление между ними может кратко рассогласовать
// pages и entries. Повторный запрос устраняет расхождение.
func (uc *QueryUseCase) ListEntries(ctx context.Context, userID string, params entities.ListParams) (*entities.EntryPage, error) {
	params = params.Normalize(uc.maxLimit)

	filter, err := scope(userID, params)
	if err != nil {
		return nil, err
	}

	sort := repositories.SortNewestFirst
	if params.SortBy == entities.SortOldest {
		sort = repositories.SortOldestFirst
	}

	logger.Log(ctx).Debug(ctx, "listing entries",
		zap.Int("page", params.Page),
		zap.Int("limit", params.Limit),
		zap.String("sort", params.SortBy),
		zap.String("mood", string(filter.Mood)),
		zap.Bool("search", filter.Search != ""))

	var (
		total   int
		entries []*entities.Entry
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		n, err := uc.entryRepo.Count(groupCtx, filter)
		if err != nil {
			return fmt.Errorf("failed to count entries: %w", err)
		}
		total = n
		return nil
	})
	group.Go(func() error {
		found, err := uc.entryRepo.FindMany(groupCtx, filter, sort, params.Offset(), params.Limit)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		entries = found
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*entities.Entry{}
	}

	return &entities.EntryPage{
		Entries:    entries,
		Pagination: entities.NewPagination(total, params.Page, params.Limit),
	}, nil
}

// ListAllEntries возвращает все записи пользователя, новые первыми, без пагинации.
func (uc *QueryUseCase) ListAllEntries(ctx context.Context, userID string) ([]*entities.Entry, error) {
	filter, err := scope(userID, entities.DefaultListParams())
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.FindMany(ctx, filter, repositories.SortNewestFirst, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if entries == nil {
		entries = []*entities.Entry{}
	}

	return entries, nil
}
