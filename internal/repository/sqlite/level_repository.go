package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
)

type levelRepository struct {
	db *sql.DB
}

// NewLevelRepository creates a new LevelRepository implementation
func NewLevelRepository(db *sql.DB) repository.LevelRepository {
	return &levelRepository{db: db}
}

func (r *levelRepository) Get(ctx context.Context, id int64) (*models.Level, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("getting level: id=%d", id)

	var l models.Level
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, category, word_count
FROM levels
WHERE id = ?
`, id).Scan(&l.ID, &l.Name, &l.Category, &l.WordCount)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("level not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get level: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *levelRepository) List(ctx context.Context) ([]models.Level, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("listing levels")

	// Ordered by id ascending; ids are 0-based and gap-free, which the
	// unlock check relies on.
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, category, word_count
FROM levels
ORDER BY id
`)
	if err != nil {
		log.Error("failed to query levels: %v", err)
		return nil, err
	}
	defer rows.Close()

	var levels []models.Level
	for rows.Next() {
		var l models.Level
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.WordCount); err != nil {
			log.Error("failed to scan level row: %v", err)
			return nil, err
		}
		levels = append(levels, l)
	}
	log.Debug("found %d levels", len(levels))
	return levels, rows.Err()
}
