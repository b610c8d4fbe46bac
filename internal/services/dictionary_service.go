package services

import (
	"context"

	"github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// DictionaryService backs the searchable dictionary.
type DictionaryService interface {
	Search(ctx context.Context, filter models.WordFilter) ([]models.Word, int, error)
}

type dictionaryService struct {
	wordRepo repository.WordRepository
}

// NewDictionaryService creates a new DictionaryService
func NewDictionaryService(wordRepo repository.WordRepository) DictionaryService {
	return &dictionaryService{wordRepo: wordRepo}
}

func (s *dictionaryService) Search(ctx context.Context, filter models.WordFilter) ([]models.Word, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("dictionary search: query=%q, category=%s, limit=%d, offset=%d",
		filter.Query, filter.Category, filter.Limit, filter.Offset)

	if filter.Category != "" && filter.Category != models.CategoryAll && !models.ValidCategory(filter.Category) {
		return nil, 0, errors.NewValidationError("category", "unknown category")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultSearchLimit
	}
	if filter.Limit > maxSearchLimit {
		filter.Limit = maxSearchLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
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
