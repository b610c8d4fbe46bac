package services

import (
	"context"
	"time"

	"github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/progress"
	"github.com/dilan/peyvin/internal/quiz"
	"github.com/dilan/peyvin/internal/repository"
)

// ProgressService reconciles session outcomes into persistent user state.
//
// Accounting paths: SubmitStep banks XP and answer counters per question and
// is authoritative for them; Finalize closes a step-saved session (level
// watermarks, quizzes_played, streak) without re-adding XP. SubmitSession is
// the one-shot full reconcile for clients that do not step-save. A client
// must use one path per session, never both for the same answers.
type ProgressService interface {
	SubmitSession(ctx context.Context, userID string, res models.SessionResult) (*models.ReconcileResult, error)
	SubmitStep(ctx context.Context, userID string, res models.StepResult) (*models.ReconcileResult, error)
	Finalize(ctx context.Context, userID string, res models.SessionResult, completed bool) (*models.ReconcileResult, error)
	Stats(ctx context.Context, userID string) (*models.UserStats, error)
	Progress(ctx context.Context, userID string) ([]models.UserProgress, error)
	Reset(ctx context.Context, userID string) error
}

type progressService struct {
	progressRepo repository.ProgressRepository
	statsRepo    repository.StatsRepository
	levelRepo    repository.LevelRepository
	loc          *time.Location
	now          func() time.Time
}

// NewProgressService creates a new ProgressService. now is injectable for
// tests; nil means the system clock.
func NewProgressService(progressRepo repository.ProgressRepository, statsRepo repository.StatsRepository, levelRepo repository.LevelRepository, loc *time.Location, now func() time.Time) ProgressService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &progressService{
		progressRepo: progressRepo,
		statsRepo:    statsRepo,
		levelRepo:    levelRepo,
		loc:          loc,
		now:          now,
	}
}

func (s *progressService) SubmitSession(ctx context.Context, userID string, res models.SessionResult) (*models.ReconcileResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("reconciling session: user_id=%s, level_id=%d, correct=%d, wrong=%d, stars=%d",
		userID, res.LevelID, res.Correct, res.Wrong, res.Stars)

	if err := s.validateResult(ctx, res.LevelID, res.Correct, res.Wrong, &res.Stars); err != nil {
		return nil, err
	}

	if err := s.progressRepo.UpsertCompletion(ctx, userID, res.LevelID, res.Stars, res.Correct); err != nil {
		log.Error("failed to upsert level completion: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.applyAggregate(ctx, userID, models.StatsDelta{
		XP:            quiz.SessionXP(res.Correct),
		Correct:       res.Correct,
		Wrong:         res.Wrong,
		QuizzesPlayed: 1,
	})
}

func (s *progressService) SubmitStep(ctx context.Context, userID string, res models.StepResult) (*models.ReconcileResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("reconciling step: user_id=%s, level_id=%d, correct=%d, wrong=%d",
		userID, res.LevelID, res.Correct, res.Wrong)

	if err := s.validateResult(ctx, res.LevelID, res.Correct, res.Wrong, nil); err != nil {
		return nil, err
	}

	// No level upsert and no quizzes_played bump: the step path only banks
	// partial credit so an abandoned session still counts its answers.
	return s.applyAggregate(ctx, userID, models.StatsDelta{
		XP:      quiz.SessionXP(res.Correct),
		Correct: res.Correct,
		Wrong:   res.Wrong,
	})
}

func (s *progressService) Finalize(ctx context.Context, userID string, res models.SessionResult, completed bool) (*models.ReconcileResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("finalizing session: user_id=%s, level_id=%d, completed=%v, stars=%d",
		userID, res.LevelID, completed, res.Stars)

	if err := s.validateResult(ctx, res.LevelID, res.Correct, res.Wrong, &res.Stars); err != nil {
		return nil, err
	}

	if completed {
		if err := s.progressRepo.UpsertCompletion(ctx, userID, res.LevelID, res.Stars, res.Correct); err != nil {
			log.Error("failed to upsert level completion: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	// XP and answer counters were already banked step by step.
	return s.applyAggregate(ctx, userID, models.StatsDelta{QuizzesPlayed: 1})
}

// applyAggregate computes the next streak from the user's current row and
// applies the delta atomically. The point read plus single-statement
// increment cannot lose counter updates; a same-day race computes the same
// streak on both sides, so the write converges.
func (s *progressService) applyAggregate(ctx context.Context, userID string, delta models.StatsDelta) (*models.ReconcileResult, error) {
	log := logger.FromContext(ctx)

	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to read stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	today := s.now().In(s.loc)
	delta.Streak = progress.NextStreak(stats.LastActive, stats.Streak, today)
	delta.LastActive = today

	updated, err := s.statsRepo.ApplyDelta(ctx, userID, delta)
	if err != nil {
		log.Error("failed to apply stats delta: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("reconciled: user_id=%s, xp=+%d, streak=%d", userID, delta.XP, updated.Streak)
	return &models.ReconcileResult{
		XPEarned: delta.XP,
		Streak:   updated.Streak,
		Stats:    *updated,
	}, nil
}

// validateResult rejects malformed submissions before any write. Stars is
// range-checked when the caller supplies it (nil for the step path). Invariant
// violations surface generator or evaluator bugs and are never clamped.
func (s *progressService) validateResult(ctx context.Context, levelID int64, correct, wrong int, stars *int) error {
	if correct < 0 {
		return errors.NewValidationError("correct", "must not be negative")
	}
	if wrong < 0 {
		return errors.NewValidationError("wrong", "must not be negative")
	}
	if stars != nil && (*stars < 0 || *stars > 3) {
		return errors.NewValidationError("stars", "must be between 0 and 3")
	}

	level, err := s.levelRepo.Get(ctx, levelID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if level == nil {
		return errors.NewNotFoundError("level", levelID)
	}
	return nil
}

func (s *progressService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

func (s *progressService) Progress(ctx context.Context, userID string) ([]models.UserProgress, error) {
	records, err := s.progressRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

func (s *progressService) Reset(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Info("resetting progress: user_id=%s", userID)

	if err := s.progressRepo.DeleteForUser(ctx, userID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
