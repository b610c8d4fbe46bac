package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/quiz"
	"github.com/dilan/peyvin/internal/repository"
)

// QuizService drives server-held quiz sessions: generation, answer
// evaluation, the feedback auto-advance and terminal reconciliation.
type QuizService interface {
	StartSession(ctx context.Context, userID string, levelID int64) (*quiz.Snapshot, error)
	GetSession(ctx context.Context, userID string, sessionID uuid.UUID) (*quiz.Snapshot, error)
	SubmitAnswer(ctx context.Context, userID string, sessionID uuid.UUID, answer string) (*quiz.Snapshot, error)
	Advance(ctx context.Context, userID string, sessionID uuid.UUID) (*quiz.Snapshot, error)
	Discard(ctx context.Context, userID string, sessionID uuid.UUID) error
}

type quizService struct {
	wordRepo      repository.WordRepository
	levelRepo     repository.LevelRepository
	progressRepo  repository.ProgressRepository
	progressSvc   ProgressService
	generator     *quiz.Generator
	store         *quiz.Store
	feedbackDelay time.Duration
}

// NewQuizService creates a new QuizService
func NewQuizService(wordRepo repository.WordRepository, levelRepo repository.LevelRepository, progressRepo repository.ProgressRepository, progressSvc ProgressService, generator *quiz.Generator, store *quiz.Store, feedbackDelay time.Duration) QuizService {
	return &quizService{
		wordRepo:      wordRepo,
		levelRepo:     levelRepo,
		progressRepo:  progressRepo,
		progressSvc:   progressSvc,
		generator:     generator,
		store:         store,
		feedbackDelay: feedbackDelay,
	}
}

func (s *quizService) StartSession(ctx context.Context, userID string, levelID int64) (*quiz.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%s, level_id=%d", userID, levelID)

	level, err := s.levelRepo.Get(ctx, levelID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if level == nil {
		return nil, errors.NewNotFoundError("level", levelID)
	}

	if err := s.checkUnlocked(ctx, userID, levelID); err != nil {
		return nil, err
	}

	// Full bank snapshot: the generator filters the candidate pool itself and
	// needs the rest as distractor fallback for tiny categories.
	words, err := s.wordRepo.ListByCategory(ctx, models.CategoryAll)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	questions, err := s.generator.Generate(*level, words)
	if err != nil {
		log.Warn("generation failed for level %d: %v", levelID, err)
		return nil, errors.NewValidationError("level", "has no words to quiz")
	}

	ss := s.store.Start(userID, levelID, questions)
	log.Info("session started: id=%s, level_id=%d, questions=%d", ss.ID, levelID, len(questions))

	snap := ss.Snapshot()
	return &snap, nil
}

func (s *quizService) checkUnlocked(ctx context.Context, userID string, levelID int64) error {
	if levelID == 0 {
		return nil
	}
	prev, err := s.progressRepo.Get(ctx, userID, levelID-1)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if prev == nil || !prev.Completed {
		return errors.NewValidationError("level", "is locked until the previous level is completed")
	}
	return nil
}

func (s *quizService) GetSession(ctx context.Context, userID string, sessionID uuid.UUID) (*quiz.Snapshot, error) {
	ss, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	snap := ss.Snapshot()
	return &snap, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, userID string, sessionID uuid.UUID, answer string) (*quiz.Snapshot, error) {
	log := logger.FromContext(ctx)

	ss, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	fb, applied := ss.SubmitAnswer(answer)
	if !applied {
		// Double submit while feedback shows, or the session is terminal.
		log.Debug("submit ignored: session_id=%s, state=%s", sessionID, ss.State())
		snap := ss.Snapshot()
		return &snap, nil
	}
	log.Debug("answer evaluated: session_id=%s, feedback=%s", sessionID, fb)

	// Bank the answer immediately so an abandoned session keeps partial
	// credit; step-saves own XP and the answer counters.
	step := models.StepResult{LevelID: ss.LevelID}
	if fb == quiz.FeedbackCorrect {
		step.Correct = 1
	} else {
		step.Wrong = 1
	}
	if _, err := s.progressSvc.SubmitStep(ctx, userID, step); err != nil {
		// The session itself stays playable; credit is retried at finalize
		// only for quizzes_played, so this loss is surfaced but not fatal.
		log.Warn("failed to bank step: %v", err)
	}

	s.store.ScheduleAdvance(ss.ID, s.feedbackDelay, func() {
		s.autoAdvance(ss.ID)
	})

	snap := ss.Snapshot()
	return &snap, nil
}

func (s *quizService) Advance(ctx context.Context, userID string, sessionID uuid.UUID) (*quiz.Snapshot, error) {
	ss, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.store.CancelAdvance(sessionID)
	s.advance(ctx, ss)
	snap := ss.Snapshot()
	return &snap, nil
}

// autoAdvance runs when the feedback timer fires. The session may have been
// discarded or advanced explicitly in the meantime; both cases are no-ops.
func (s *quizService) autoAdvance(sessionID uuid.UUID) {
	ss := s.store.Get(sessionID)
	if ss == nil {
		return
	}
	ctx := logger.NewContext(context.Background(), logger.Default().WithField("session_id", sessionID))
	s.advance(ctx, ss)
}

func (s *quizService) advance(ctx context.Context, ss *quiz.StoredSession) {
	log := logger.FromContext(ctx)

	state, changed := ss.AdvanceNow()
	if !changed {
		return
	}
	log.Debug("session advanced: id=%s, state=%s", ss.ID, state)

	if state != quiz.StateCompleted && state != quiz.StateFailed {
		return
	}
	// MarkFinalized wins exactly once even if the timer and an explicit
	// advance race to the terminal transition.
	if !ss.MarkFinalized() {
		return
	}

	res := ss.Result()
	if _, err := s.progressSvc.Finalize(ctx, ss.UserID, res, state == quiz.StateCompleted); err != nil {
		log.Error("failed to finalize session %s: %v", ss.ID, err)
		return
	}
	log.Info("session finished: id=%s, state=%s, correct=%d, wrong=%d, stars=%d",
		ss.ID, state, res.Correct, res.Wrong, res.Stars)
}

func (s *quizService) Discard(ctx context.Context, userID string, sessionID uuid.UUID) error {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return err
	}
	s.store.Remove(sessionID)
	logger.FromContext(ctx).Debug("session discarded: id=%s", sessionID)
	return nil
}

// ownedSession resolves a session id and hides other users' sessions behind
// not-found.
func (s *quizService) ownedSession(userID string, sessionID uuid.UUID) (*quiz.StoredSession, error) {
	ss := s.store.Get(sessionID)
	if ss == nil || ss.UserID != userID {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return ss, nil
}
