package services_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dilan/peyvin/internal/errors"
	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/quiz"
	"github.com/dilan/peyvin/internal/services"
	"github.com/dilan/peyvin/internal/testutil/mocks"
)

// stubProgressService records reconciliation calls; the quiz service only
// needs SubmitStep and Finalize.
type stubProgressService struct {
	mu        sync.Mutex
	steps     []models.StepResult
	finalized []finalizeCall
}

type finalizeCall struct {
	res       models.SessionResult
	completed bool
}

func (s *stubProgressService) SubmitStep(ctx context.Context, userID string, res models.StepResult) (*models.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, res)
	return &models.ReconcileResult{XPEarned: res.Correct * quiz.QuestionXP}, nil
}

func (s *stubProgressService) Finalize(ctx context.Context, userID string, res models.SessionResult, completed bool) (*models.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized = append(s.finalized, finalizeCall{res: res, completed: completed})
	return &models.ReconcileResult{}, nil
}

func (s *stubProgressService) SubmitSession(ctx context.Context, userID string, res models.SessionResult) (*models.ReconcileResult, error) {
	return &models.ReconcileResult{}, nil
}

func (s *stubProgressService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	return &models.UserStats{UserID: userID}, nil
}

func (s *stubProgressService) Progress(ctx context.Context, userID string) ([]models.UserProgress, error) {
	return nil, nil
}

func (s *stubProgressService) Reset(ctx context.Context, userID string) error {
	return nil
}

func (s *stubProgressService) stepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}

func (s *stubProgressService) finalizeCalls() []finalizeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]finalizeCall(nil), s.finalized...)
}

func colorBank(n int) []models.Word {
	words := make([]models.Word, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, models.Word{
			ID:       int64(i + 1),
			De:       fmt.Sprintf("Farbe-%d", i),
			Ku:       fmt.Sprintf("reng-%d", i),
			Category: "colors",
		})
	}
	return words
}

type quizFixture struct {
	svc          services.QuizService
	progress     *stubProgressService
	wordRepo     *mocks.MockWordRepository
	levelRepo    *mocks.MockLevelRepository
	progressRepo *mocks.MockProgressRepository
}

func newQuizFixture(feedbackDelay time.Duration, seed int64) *quizFixture {
	f := &quizFixture{
		progress:     &stubProgressService{},
		wordRepo:     new(mocks.MockWordRepository),
		levelRepo:    new(mocks.MockLevelRepository),
		progressRepo: new(mocks.MockProgressRepository),
	}
	f.svc = services.NewQuizService(
		f.wordRepo,
		f.levelRepo,
		f.progressRepo,
		f.progress,
		quiz.NewGenerator(rand.New(rand.NewSource(seed))),
		quiz.NewStore(time.Minute),
		feedbackDelay,
	)
	return f
}

func (f *quizFixture) expectColorsLevel(id int64, wordCount, bankSize int) {
	f.levelRepo.On("Get", mock.Anything, id).
		Return(&models.Level{ID: id, Name: "Reng", Category: "colors", WordCount: wordCount}, nil)
	f.wordRepo.On("ListByCategory", mock.Anything, models.CategoryAll).Return(colorBank(bankSize), nil)
}

func TestStartSession(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.expectColorsLevel(0, 5, 10)

	snap, err := f.svc.StartSession(context.Background(), "user-1", 0)
	require.NoError(t, err)

	assert.Equal(t, quiz.StateActive, snap.State)
	assert.Equal(t, 5, snap.Total)
	assert.Equal(t, quiz.Lives, snap.Lives)
	require.NotNil(t, snap.Question)
	assert.Empty(t, snap.Answer)
}

func TestStartSession_UnknownLevel(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.levelRepo.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	_, err := f.svc.StartSession(context.Background(), "user-1", 42)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestStartSession_LockedLevel(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.levelRepo.On("Get", mock.Anything, int64(1)).
		Return(&models.Level{ID: 1, Category: "colors", WordCount: 5}, nil)
	f.progressRepo.On("Get", mock.Anything, "user-1", int64(0)).Return(nil, nil)

	_, err := f.svc.StartSession(context.Background(), "user-1", 1)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestStartSession_UnlockedAfterPreviousCompleted(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.levelRepo.On("Get", mock.Anything, int64(1)).
		Return(&models.Level{ID: 1, Category: "colors", WordCount: 5}, nil)
	f.progressRepo.On("Get", mock.Anything, "user-1", int64(0)).
		Return(&models.UserProgress{UserID: "user-1", LevelID: 0, Completed: true}, nil)
	f.wordRepo.On("ListByCategory", mock.Anything, models.CategoryAll).Return(colorBank(10), nil)

	snap, err := f.svc.StartSession(context.Background(), "user-1", 1)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateActive, snap.State)
}

func TestStartSession_EmptyPool(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.levelRepo.On("Get", mock.Anything, int64(0)).
		Return(&models.Level{ID: 0, Category: "animals", WordCount: 5}, nil)
	f.wordRepo.On("ListByCategory", mock.Anything, models.CategoryAll).Return(colorBank(10), nil)

	_, err := f.svc.StartSession(context.Background(), "user-1", 0)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestFullPlaythrough_Completed(t *testing.T) {
	f := newQuizFixture(time.Minute, 7)
	f.expectColorsLevel(0, 5, 10)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)
	sessionID := snap.ID

	for i := 0; i < 5; i++ {
		require.Equal(t, quiz.StateActive, snap.State)
		require.NotNil(t, snap.Question)

		snap, err = f.svc.SubmitAnswer(ctx, "user-1", sessionID, snap.Question.Answer)
		require.NoError(t, err)
		require.Equal(t, quiz.StateFeedback, snap.State)
		require.Equal(t, quiz.FeedbackCorrect, snap.Feedback)
		assert.NotEmpty(t, snap.Answer, "feedback reveals the correct answer")

		snap, err = f.svc.Advance(ctx, "user-1", sessionID)
		require.NoError(t, err)
	}

	assert.Equal(t, quiz.StateCompleted, snap.State)
	assert.Equal(t, 5, snap.Correct)
	assert.Equal(t, 50, snap.XP)
	assert.Equal(t, 3, snap.Stars)

	assert.Equal(t, 5, f.progress.stepCount(), "every answer is banked as a step")
	calls := f.progress.finalizeCalls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].completed)
	assert.Equal(t, 3, calls[0].res.Stars)
	assert.Equal(t, 5, calls[0].res.Correct)
}

func TestPlaythrough_FailsAfterThreeWrongAnswers(t *testing.T) {
	f := newQuizFixture(time.Minute, 3)
	f.expectColorsLevel(0, 8, 10)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)
	sessionID := snap.ID

	for i := 0; i < quiz.Lives; i++ {
		snap, err = f.svc.SubmitAnswer(ctx, "user-1", sessionID, "definitiv falsch")
		require.NoError(t, err)
		require.Equal(t, quiz.FeedbackWrong, snap.Feedback)

		snap, err = f.svc.Advance(ctx, "user-1", sessionID)
		require.NoError(t, err)
	}

	assert.Equal(t, quiz.StateFailed, snap.State)
	assert.Equal(t, 0, snap.Lives)

	calls := f.progress.finalizeCalls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].completed, "a failed session must not complete the level")
	assert.Equal(t, 3, calls[0].res.Wrong)
}

func TestSubmitAnswer_DoubleSubmitBanksOneStep(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.expectColorsLevel(0, 5, 10)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)
	answer := snap.Question.Answer

	first, err := f.svc.SubmitAnswer(ctx, "user-1", snap.ID, answer)
	require.NoError(t, err)
	second, err := f.svc.SubmitAnswer(ctx, "user-1", snap.ID, answer)
	require.NoError(t, err)

	assert.Equal(t, first.Correct, second.Correct)
	assert.Equal(t, 1, f.progress.stepCount(), "the duplicate submit must not bank a second step")
}

func TestAutoAdvance_TimerMovesSessionOn(t *testing.T) {
	f := newQuizFixture(10*time.Millisecond, 1)
	f.expectColorsLevel(0, 5, 10)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, "user-1", snap.ID, snap.Question.Answer)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := f.svc.GetSession(ctx, "user-1", snap.ID)
		return err == nil && current.State == quiz.StateActive && current.Index == 1
	}, time.Second, 5*time.Millisecond, "the feedback timer should advance the session")
}

func TestAutoAdvance_FinalizesTerminalSessionOnce(t *testing.T) {
	f := newQuizFixture(10*time.Millisecond, 1)
	f.expectColorsLevel(0, 1, 10)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, "user-1", snap.ID, snap.Question.Answer)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(f.progress.finalizeCalls()) == 1
	}, time.Second, 5*time.Millisecond)

	// An explicit advance after the timer already finalized changes nothing.
	final, err := f.svc.Advance(ctx, "user-1", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateCompleted, final.State)
	assert.Len(t, f.progress.finalizeCalls(), 1)
}

func TestGetSession_OtherUsersSessionHidden(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.expectColorsLevel(0, 5, 10)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)

	_, err = f.svc.GetSession(ctx, "user-2", snap.ID)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestDiscard(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.expectColorsLevel(0, 5, 10)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)

	require.NoError(t, f.svc.Discard(ctx, "user-1", snap.ID))

	_, err = f.svc.GetSession(ctx, "user-1", snap.ID)
	require.Error(t, err)

	assert.Empty(t, f.progress.finalizeCalls(), "discarded sessions are never reconciled")
}

func TestStartSession_ReplacesExistingSession(t *testing.T) {
	f := newQuizFixture(time.Minute, 1)
	f.expectColorsLevel(0, 5, 10)
	ctx := context.Background()

	first, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)
	second, err := f.svc.StartSession(ctx, "user-1", 0)
	require.NoError(t, err)

	_, err = f.svc.GetSession(ctx, "user-1", first.ID)
	require.Error(t, err, "starting again discards the previous session")

	snap, err := f.svc.GetSession(ctx, "user-1", second.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateActive, snap.State)
}
