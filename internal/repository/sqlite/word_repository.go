package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const wordColumns = "id, de, ku, category, note, is_phrase, audio_url, created_at, updated_at"

type wordRepository struct {
	db *sql.DB
}

// NewWordRepository creates a new WordRepository implementation
func NewWordRepository(db *sql.DB) repository.WordRepository {
	return &wordRepository{db: db}
}

func scanWord(row interface{ Scan(...any) error }) (*models.Word, error) {
	var w models.Word
	err := row.Scan(&w.ID, &w.De, &w.Ku, &w.Category, &w.Note, &w.IsPhrase, &w.AudioURL, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wordRepository) Get(ctx context.Context, id int64) (*models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("getting word: id=%d", id)

	w, err := scanWord(r.db.QueryRowContext(ctx, `
SELECT `+wordColumns+`
FROM words
WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("word not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get word: %v", err)
		return nil, err
	}
	return w, nil
}

func (r *wordRepository) ListByCategory(ctx context.Context, category string) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("listing words: category=%s", category)

	query := sqlBuilder.Select(
		"id", "de", "ku", "category", "note", "is_phrase", "audio_url", "created_at", "updated_at",
	).From("words").OrderBy("id")
	if category != "" && category != models.CategoryAll {
		query = query.Where(squirrel.Eq{"category": category})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryWords(ctx, sqlStr, args...)
}

func (r *wordRepository) Search(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("searching words: query=%q, category=%s", filter.Query, filter.Category)

	query := searchQuery(filter).Columns(
		"id", "de", "ku", "category", "note", "is_phrase", "audio_url", "created_at", "updated_at",
	).OrderBy("de")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryWords(ctx, sqlStr, args...)
}

func (r *wordRepository) Count(ctx context.Context, filter models.WordFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	sqlStr, args, err := searchQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count words: %v", err)
		return 0, err
	}
	return count, nil
}

// searchQuery builds the shared WHERE clauses for Search and Count.
func searchQuery(filter models.WordFilter) squirrel.SelectBuilder {
	query := sqlBuilder.Select().From("words")
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"de": like},
			squirrel.Like{"ku": like},
		})
	}
	if filter.Category != "" && filter.Category != models.CategoryAll {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	return query
}

func (r *wordRepository) queryWords(ctx context.Context, sqlStr string, args ...any) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			log.Error("failed to scan word row: %v", err)
			return nil, err
		}
		words = append(words, *w)
	}
	log.Debug("found %d words", len(words))
	return words, rows.Err()
}

func (r *wordRepository) Insert(ctx context.Context, w models.Word) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("inserting word: de=%q, category=%s", w.De, w.Category)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO words (de, ku, category, note, is_phrase, audio_url)
VALUES (?, ?, ?, ?, ?, ?)
`, w.De, w.Ku, w.Category, w.Note, w.IsPhrase, w.AudioURL)
	if err != nil {
		log.Error("failed to insert word: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get word id: %v", err)
		return 0, err
	}
	log.Debug("word inserted: id=%d", id)
	return id, nil
}

func (r *wordRepository) Update(ctx context.Context, w models.Word) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("updating word: id=%d", w.ID)

	res, err := r.db.ExecContext(ctx, `
UPDATE words
SET de = ?, ku = ?, category = ?, note = ?, is_phrase = ?, audio_url = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, w.De, w.Ku, w.Category, w.Note, w.IsPhrase, w.AudioURL, w.ID)
	if err != nil {
		log.Error("failed to update word: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *wordRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("deleting word: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete word: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
