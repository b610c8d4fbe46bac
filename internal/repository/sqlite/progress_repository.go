package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID string, levelID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%s, level_id=%d", userID, levelID)

	var p models.UserProgress
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, level_id, completed, stars, best_score, updated_at
FROM user_progress
WHERE user_id = ? AND level_id = ?
`, userID, levelID).Scan(&p.UserID, &p.LevelID, &p.Completed, &p.Stars, &p.BestScore, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress record: user_id=%s, level_id=%d", userID, levelID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) ListForUser(ctx context.Context, userID string) ([]models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, level_id, completed, stars, best_score, updated_at
FROM user_progress
WHERE user_id = ?
ORDER BY level_id
`, userID)
	if err != nil {
		log.Error("failed to query progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.UserProgress
	for rows.Next() {
		var p models.UserProgress
		if err := rows.Scan(&p.UserID, &p.LevelID, &p.Completed, &p.Stars, &p.BestScore, &p.UpdatedAt); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		records = append(records, p)
	}
	log.Debug("found %d progress records", len(records))
	return records, rows.Err()
}

func (r *progressRepository) UpsertCompletion(ctx context.Context, userID string, levelID int64, stars, bestScore int) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting completion: user_id=%s, level_id=%d, stars=%d, best_score=%d", userID, levelID, stars, bestScore)

	// MAX-aggregating conflict resolution: a worse retry must never lower
	// the stored watermarks, even under concurrent completions.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_progress (user_id, level_id, completed, stars, best_score)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT(user_id, level_id) DO UPDATE SET
    completed = 1,
    stars = MAX(stars, excluded.stars),
    best_score = MAX(best_score, excluded.best_score),
    updated_at = CURRENT_TIMESTAMP
`, userID, levelID, stars, bestScore)
	if err != nil {
		log.Error("failed to upsert completion: %v", err)
	}
	return err
}

func (r *progressRepository) DeleteForUser(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("deleting all progress: user_id=%s", userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM user_progress WHERE user_id = ?`, userID)
	if err != nil {
		log.Error("failed to delete progress: %v", err)
	}
	return err
}
