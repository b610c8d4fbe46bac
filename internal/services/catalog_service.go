package services

import (
	"context"

	"github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
)

// CatalogService exposes the level catalogue decorated with per-user state.
type CatalogService interface {
	Levels(ctx context.Context, userID string) ([]models.LevelStatus, error)
	Categories(ctx context.Context) ([]string, error)
}

type catalogService struct {
	levelRepo    repository.LevelRepository
	progressRepo repository.ProgressRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(levelRepo repository.LevelRepository, progressRepo repository.ProgressRepository) CatalogService {
	return &catalogService{levelRepo: levelRepo, progressRepo: progressRepo}
}

func (s *catalogService) Levels(ctx context.Context, userID string) ([]models.LevelStatus, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing levels: user_id=%s", userID)

	levels, err := s.levelRepo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	records, err := s.progressRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	byLevel := make(map[int64]models.UserProgress, len(records))
	for _, rec := range records {
		byLevel[rec.LevelID] = rec
	}

	// Unlock is derived, not stored: level i is playable once level i-1 is
	// completed. Level 0 is always open. Ids are gap-free and ordered.
	statuses := make([]models.LevelStatus, 0, len(levels))
	prevCompleted := true
	for _, level := range levels {
		status := models.LevelStatus{Level: level, Unlocked: prevCompleted}
		if rec, ok := byLevel[level.ID]; ok {
			rec := rec
			status.Progress = &rec
		}
		prevCompleted = status.Progress != nil && status.Progress.Completed
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	return models.Categories, nil
}
