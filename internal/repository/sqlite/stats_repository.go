package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
)

// dateLayout is the calendar-date format stored in user_stats.last_active.
const dateLayout = "2006-01-02"

type statsRepository struct {
	db *sql.DB
	// loc is the time zone calendar dates are interpreted in; it must match
	// the zone the streak policy compares days in.
	loc *time.Location
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB, loc *time.Location) repository.StatsRepository {
	if loc == nil {
		loc = time.Local
	}
	return &statsRepository{db: db, loc: loc}
}

func (r *statsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting stats: user_id=%s", userID)

	var s models.UserStats
	var lastActive sql.NullString
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, xp, streak, last_active, total_correct, total_wrong, quizzes_played
FROM user_stats
WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.XP, &s.Streak, &lastActive, &s.TotalCorrect, &s.TotalWrong, &s.QuizzesPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no stats row yet: user_id=%s", userID)
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		log.Error("failed to get stats: %v", err)
		return nil, err
	}
	if err := r.parseLastActive(lastActive, &s); err != nil {
		log.Error("invalid last_active for user_id=%s: %v", userID, err)
		return nil, err
	}
	return &s, nil
}

func (r *statsRepository) ApplyDelta(ctx context.Context, userID string, delta models.StatsDelta) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("applying stats delta: user_id=%s, xp=+%d, correct=+%d, wrong=+%d, quizzes=+%d, streak=%d",
		userID, delta.XP, delta.Correct, delta.Wrong, delta.QuizzesPlayed, delta.Streak)

	// Single-statement increment upsert: concurrent submissions for the same
	// user cannot lose counter updates to a read-modify-write race.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_stats (user_id, xp, streak, last_active, total_correct, total_wrong, quizzes_played)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    xp = xp + excluded.xp,
    total_correct = total_correct + excluded.total_correct,
    total_wrong = total_wrong + excluded.total_wrong,
    quizzes_played = quizzes_played + excluded.quizzes_played,
    streak = excluded.streak,
    last_active = excluded.last_active
`, userID, delta.XP, delta.Streak, delta.LastActive.Format(dateLayout), delta.Correct, delta.Wrong, delta.QuizzesPlayed)
	if err != nil {
		log.Error("failed to apply stats delta: %v", err)
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *statsRepository) parseLastActive(v sql.NullString, s *models.UserStats) error {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, v.String, r.loc)
	if err != nil {
		return err
	}
	s.LastActive = &t
	return nil
}
