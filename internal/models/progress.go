package models

import "time"

// UserProgress is the persisted per-(user, level) completion record.
// Stars and BestScore are watermarks: they never decrease across attempts.
type UserProgress struct {
	UserID    string    `json:"-"`
	LevelID   int64     `json:"level_id"`
	Completed bool      `json:"completed"`
	Stars     int       `json:"stars"`
	BestScore int       `json:"best_score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStats is the persisted per-user aggregate. All counters are lifetime
// totals and only ever increase; Streak and LastActive move together.
type UserStats struct {
	UserID        string     `json:"-"`
	XP            int        `json:"xp"`
	Streak        int        `json:"streak"`
	LastActive    *time.Time `json:"last_active,omitempty"`
	TotalCorrect  int        `json:"total_correct"`
	TotalWrong    int        `json:"total_wrong"`
	QuizzesPlayed int        `json:"quizzes_played"`
}

// StatsDelta is one atomic adjustment to a user's aggregate stats. Counter
// fields are increments; Streak and LastActive are absolute values set as
// part of the same write.
type StatsDelta struct {
	XP            int
	Correct       int
	Wrong         int
	QuizzesPlayed int
	Streak        int
	LastActive    time.Time
}

// SessionResult is the outcome of one finished quiz session.
type SessionResult struct {
	LevelID int64 `json:"level_id"`
	Correct int   `json:"correct"`
	Wrong   int   `json:"wrong"`
	Stars   int   `json:"stars"`
}

// StepResult is the partial-credit outcome of a single answered question.
type StepResult struct {
	LevelID int64 `json:"level_id"`
	Correct int   `json:"correct"`
	Wrong   int   `json:"wrong"`
}

// ReconcileResult reports what a reconciliation call banked for the user.
type ReconcileResult struct {
	XPEarned int       `json:"xp_earned"`
	Streak   int       `json:"streak"`
	Stats    UserStats `json:"aggregate"`
}
