package app_test

import (
	"context"
	"errors"

	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/ports/repositories"

	"github.com/stretchr/testify/mock"
)

var ErrDatabaseOperation = errors.New("database error")

type mockEntryRepository struct {
	mock.Mock
}

func (m *mockEntryRepository) Insert(ctx context.Context, entry *entities.Entry) (*entities.Entry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *mockEntryRepository) FindByID(ctx context.Context, entryID string) (*entities.Entry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *mockEntryRepository) FindMany(ctx context.Context, filter repositories.EntryFilter, sort repositories.SortOrder, skip, limit int) ([]*entities.Entry, error) {
	args := m.Called(ctx, filter, sort, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Entry), args.Error(1)
}

func (m *mockEntryRepository) Count(ctx context.Context, filter repositories.EntryFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *mockEntryRepository) Update(ctx context.Context, entryID, content string) (*entities.Entry, error) {
	args := m.Called(ctx, entryID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *mockEntryRepository) Delete(ctx context.Context, entryID string) error {
	return m.Called(ctx, entryID).Error(0)
}

type mockMoodClassifier struct {
	mock.Mock
}

func (m *mockMoodClassifier) Classify(ctx context.Context, text string) entities.MoodResult {
	return m.Called(ctx, text).Get(0).(entities.MoodResult)
}
