package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
)

// ContentService is the admin-facing word bank management surface.
type ContentService interface {
	CreateWord(ctx context.Context, w models.Word) (*models.Word, error)
	UpdateWord(ctx context.Context, w models.Word) (*models.Word, error)
	DeleteWord(ctx context.Context, id int64) error
	ListWords(ctx context.Context, filter models.WordFilter) ([]models.Word, int, error)
}

type contentService struct {
	wordRepo repository.WordRepository
}

// NewContentService creates a new ContentService
func NewContentService(wordRepo repository.WordRepository) ContentService {
	return &contentService{wordRepo: wordRepo}
}

func validateWord(w models.Word) error {
	if strings.TrimSpace(w.De) == "" {
		return errors.NewValidationError("de", "must not be empty")
	}
	if strings.TrimSpace(w.Ku) == "" {
		return errors.NewValidationError("ku", "must not be empty")
	}
	if !models.ValidCategory(w.Category) {
		return errors.NewValidationError("category", "unknown category")
	}
	return nil
}

func (s *contentService) CreateWord(ctx context.Context, w models.Word) (*models.Word, error) {
	log := logger.FromContext(ctx)

	if err := validateWord(w); err != nil {
		return nil, err
	}
	id, err := s.wordRepo.Insert(ctx, w)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("word created: id=%d, de=%q", id, w.De)
	return s.wordRepo.Get(ctx, id)
}

func (s *contentService) UpdateWord(ctx context.Context, w models.Word) (*models.Word, error) {
	log := logger.FromContext(ctx)

	if err := validateWord(w); err != nil {
		return nil, err
	}
	if err := s.wordRepo.Update(ctx, w); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("word", w.ID)
		}
		return nil, errors.NewInternalError(err)
	}
	log.Info("word updated: id=%d", w.ID)
	return s.wordRepo.Get(ctx, w.ID)
}

func (s *contentService) DeleteWord(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	if err := s.wordRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("word", id)
		}
		return errors.NewInternalError(err)
	}
	log.Info("word deleted: id=%d", id)
	return nil
}

func (s *contentService) ListWords(ctx context.Context, filter models.WordFilter) ([]models.Word, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultSearchLimit
	}
	words, err := s.wordRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.wordRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	return words, total, nil
}
