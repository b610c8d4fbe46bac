package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/services"
	"github.com/dilan/peyvin/internal/testutil/mocks"
)

func TestCreateWord(t *testing.T) {
	wordRepo := new(mocks.MockWordRepository)
	svc := services.NewContentService(wordRepo)

	input := models.Word{De: "Wasser", Ku: "av", Category: "food"}
	wordRepo.On("Insert", mock.Anything, input).Return(int64(101), nil)
	wordRepo.On("Get", mock.Anything, int64(101)).Return(&models.Word{
		ID: 101, De: "Wasser", Ku: "av", Category: "food",
	}, nil)

	created, err := svc.CreateWord(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	wordRepo.AssertExpectations(t)
}

func TestCreateWord_Validation(t *testing.T) {
	tests := []struct {
		name  string
		word  models.Word
		field string
	}{
		{"empty german", models.Word{Ku: "av", Category: "food"}, "de"},
		{"whitespace german", models.Word{De: "   ", Ku: "av", Category: "food"}, "de"},
		{"empty kurdish", models.Word{De: "Wasser", Category: "food"}, "ku"},
		{"unknown category", models.Word{De: "Wasser", Ku: "av", Category: "drinks"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wordRepo := new(mocks.MockWordRepository)
			svc := services.NewContentService(wordRepo)

			_, err := svc.CreateWord(context.Background(), tt.word)
			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
			wordRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateWord_Missing(t *testing.T) {
	wordRepo := new(mocks.MockWordRepository)
	svc := services.NewContentService(wordRepo)

	input := models.Word{ID: 999, De: "Wasser", Ku: "av", Category: "food"}
	wordRepo.On("Update", mock.Anything, input).Return(sql.ErrNoRows)

	_, err := svc.UpdateWord(context.Background(), input)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestDeleteWord(t *testing.T) {
	wordRepo := new(mocks.MockWordRepository)
	svc := services.NewContentService(wordRepo)

	wordRepo.On("Delete", mock.Anything, int64(5)).Return(nil)
	require.NoError(t, svc.DeleteWord(context.Background(), 5))
}

func TestDeleteWord_Missing(t *testing.T) {
	wordRepo := new(mocks.MockWordRepository)
	svc := services.NewContentService(wordRepo)

	wordRepo.On("Delete", mock.Anything, int64(999)).Return(sql.ErrNoRows)

	err := svc.DeleteWord(context.Background(), 999)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestListWords_DefaultsLimit(t *testing.T) {
	wordRepo := new(mocks.MockWordRepository)
	svc := services.NewContentService(wordRepo)

	expected := models.WordFilter{Limit: 50}
	wordRepo.On("Search", mock.Anything, expected).Return([]models.Word{}, nil)
	wordRepo.On("Count", mock.Anything, expected).Return(0, nil)

	_, total, err := svc.ListWords(context.Background(), models.WordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	wordRepo.AssertExpectations(t)
}
