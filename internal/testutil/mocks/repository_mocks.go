package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dilan/peyvin/internal/models"
)

// MockWordRepository is a mock implementation of repository.WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) Get(ctx context.Context, id int64) (*models.Word, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Word), args.Error(1)
}

func (m *MockWordRepository) ListByCategory(ctx context.Context, category string) ([]models.Word, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Word), args.Error(1)
}

func (m *MockWordRepository) Search(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Word), args.Error(1)
}

func (m *MockWordRepository) Count(ctx context.Context, filter models.WordFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) Insert(ctx context.Context, w models.Word) (int64, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWordRepository) Update(ctx context.Context, w models.Word) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWordRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLevelRepository is a mock implementation of repository.LevelRepository
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) Get(ctx context.Context, id int64) (*models.Level, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Level), args.Error(1)
}

func (m *MockLevelRepository) List(ctx context.Context) ([]models.Level, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Level), args.Error(1)
}

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string, levelID int64) (*models.UserProgress, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) ListForUser(ctx context.Context, userID string) ([]models.UserProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) UpsertCompletion(ctx context.Context, userID string, levelID int64, stars, bestScore int) error {
	args := m.Called(ctx, userID, levelID, stars, bestScore)
	return args.Error(0)
}

func (m *MockProgressRepository) DeleteForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockStatsRepository) ApplyDelta(ctx context.Context, userID string, delta models.StatsDelta) (*models.UserStats, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}
