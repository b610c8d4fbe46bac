package quiz

import "github.com/dilan/peyvin/internal/models"

// State is the session state machine's current phase.
type State string

const (
	StateActive    State = "active"
	StateFeedback  State = "feedback"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Feedback is the outcome shown for the current question.
type Feedback string

const (
	FeedbackNone    Feedback = "none"
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
)

// Lives is the number of lives a fresh session starts with.
const Lives = 3

// Session is one quiz attempt over a fixed question sequence. It is never
// persisted; a retry discards the session and generates a new one. The
// machine runs active → feedback per question, terminating in completed
// (questions exhausted) or failed (lives reached 0 on a wrong answer).
type Session struct {
	Questions []models.Question
	Index     int
	Lives     int
	Correct   int
	Wrong     int
	XP        int
	State     State
	Feedback  Feedback
}

// NewSession starts a session at question 0 with full lives.
func NewSession(questions []models.Question) *Session {
	return &Session{
		Questions: questions,
		Lives:     Lives,
		State:     StateActive,
		Feedback:  FeedbackNone,
	}
}

// Current returns the question at the session's index, or nil once terminal.
func (s *Session) Current() *models.Question {
	if s.Index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Index]
}

// Terminal reports whether the session has finished.
func (s *Session) Terminal() bool {
	return s.State == StateCompleted || s.State == StateFailed
}

// Submit evaluates an answer for the current question and moves to feedback.
// Submitting while feedback is already shown, or after a terminal state, is a
// no-op (guards double-submits); applied reports whether the answer counted.
func (s *Session) Submit(answer string) (fb Feedback, applied bool) {
	if s.State != StateActive {
		return s.Feedback, false
	}
	q := s.Current()
	if q == nil {
		return s.Feedback, false
	}
	if IsCorrect(answer, *q) {
		s.Correct++
		s.XP += QuestionXP
		s.Feedback = FeedbackCorrect
	} else {
		s.Wrong++
		s.Lives--
		s.Feedback = FeedbackWrong
	}
	s.State = StateFeedback
	return s.Feedback, true
}

// Advance applies the post-feedback transition: failed when lives ran out on
// a wrong answer, completed when the question list is exhausted, otherwise
// the next question becomes active. Advancing outside the feedback state is a
// no-op; changed reports whether a transition happened.
func (s *Session) Advance() (state State, changed bool) {
	if s.State != StateFeedback {
		return s.State, false
	}
	switch {
	case s.Lives <= 0 && s.Feedback == FeedbackWrong:
		s.State = StateFailed
	case s.Index == len(s.Questions)-1:
		s.State = StateCompleted
	default:
		s.Index++
		s.Feedback = FeedbackNone
		s.State = StateActive
	}
	return s.State, true
}

// Result summarizes the session for reconciliation. Stars are only meaningful
// once the session is terminal.
func (s *Session) Result(levelID int64) models.SessionResult {
	return models.SessionResult{
		LevelID: levelID,
		Correct: s.Correct,
		Wrong:   s.Wrong,
		Stars:   Stars(s.Correct, s.Wrong),
	}
}
