package repository

import (
	"context"

	"github.com/dilan/peyvin/internal/models"
)

// WordRepository handles word bank data access
type WordRepository interface {
	Get(ctx context.Context, id int64) (*models.Word, error)
	// ListByCategory returns all words in a category; the empty string or
	// models.CategoryAll returns the whole bank.
	ListByCategory(ctx context.Context, category string) ([]models.Word, error)
	Search(ctx context.Context, filter models.WordFilter) ([]models.Word, error)
	Count(ctx context.Context, filter models.WordFilter) (int, error)
	Insert(ctx context.Context, w models.Word) (int64, error)
	Update(ctx context.Context, w models.Word) error
	Delete(ctx context.Context, id int64) error
}

// LevelRepository handles level catalogue access
type LevelRepository interface {
	Get(ctx context.Context, id int64) (*models.Level, error)
	List(ctx context.Context) ([]models.Level, error)
}

// ProgressRepository handles per-(user, level) completion records
type ProgressRepository interface {
	Get(ctx context.Context, userID string, levelID int64) (*models.UserProgress, error)
	ListForUser(ctx context.Context, userID string) ([]models.UserProgress, error)
	// UpsertCompletion records a completion with MAX-aggregating conflict
	// resolution: stars and best_score never decrease.
	UpsertCompletion(ctx context.Context, userID string, levelID int64, stars, bestScore int) error
	// DeleteForUser removes every progress record for the user (full reset).
	DeleteForUser(ctx context.Context, userID string) error
}

// StatsRepository handles per-user aggregate stats
type StatsRepository interface {
	// Get returns the user's aggregate row, or a zero-valued record when the
	// user has no stats yet.
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	// ApplyDelta applies counter increments and the new streak/last-active in
	// one atomic statement and returns the resulting row.
	ApplyDelta(ctx context.Context, userID string, delta models.StatsDelta) (*models.UserStats, error)
}
