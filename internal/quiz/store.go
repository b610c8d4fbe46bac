package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/models"
)

// StoredSession is an active session held server-side, owned by one user.
// All state access goes through its mutex: the interacting user and the
// auto-advance timer may race on the same session, and the underlying state
// machine transitions must stay serialized.
type StoredSession struct {
	ID      uuid.UUID
	UserID  string
	LevelID int64

	mu        sync.Mutex
	session   *Session
	finalized bool
	touchedAt time.Time
	timer     *time.Timer
}

// Snapshot is a consistent read of a stored session for API responses. The
// correct answer is only revealed while feedback for it is showing.
type Snapshot struct {
	ID       uuid.UUID        `json:"id"`
	LevelID  int64            `json:"level_id"`
	State    State            `json:"state"`
	Feedback Feedback         `json:"feedback"`
	Index    int              `json:"index"`
	Total    int              `json:"total"`
	Lives    int              `json:"lives"`
	Correct  int              `json:"correct"`
	Wrong    int              `json:"wrong"`
	XP       int              `json:"xp"`
	Stars    int              `json:"stars,omitempty"`
	Question *models.Question `json:"question,omitempty"`
	Answer   string           `json:"answer,omitempty"`
}

// Snapshot returns a point-in-time view of the session.
func (ss *StoredSession) Snapshot() Snapshot {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s := ss.session
	snap := Snapshot{
		ID:       ss.ID,
		LevelID:  ss.LevelID,
		State:    s.State,
		Feedback: s.Feedback,
		Index:    s.Index,
		Total:    len(s.Questions),
		Lives:    s.Lives,
		Correct:  s.Correct,
		Wrong:    s.Wrong,
		XP:       s.XP,
	}
	if s.State == StateActive {
		snap.Question = s.Current()
	}
	if s.State == StateFeedback {
		if q := s.Current(); q != nil {
			snap.Question = q
			snap.Answer = q.Answer
		}
	}
	if s.Terminal() {
		snap.Stars = Stars(s.Correct, s.Wrong)
	}
	return snap
}

// SubmitAnswer forwards to the state machine under the session lock.
func (ss *StoredSession) SubmitAnswer(answer string) (Feedback, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.touchedAt = time.Now()
	return ss.session.Submit(answer)
}

// AdvanceNow forwards to the state machine under the session lock.
func (ss *StoredSession) AdvanceNow() (State, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.touchedAt = time.Now()
	return ss.session.Advance()
}

// MarkFinalized flips the finalized flag, returning true exactly once so a
// racing timer and an explicit advance call cannot both reconcile the same
// terminal session.
func (ss *StoredSession) MarkFinalized() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.finalized || !ss.session.Terminal() {
		return false
	}
	ss.finalized = true
	return true
}

// State returns the machine's current state.
func (ss *StoredSession) State() State {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.session.State
}

// Result summarizes the session for reconciliation.
func (ss *StoredSession) Result() models.SessionResult {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.session.Result(ss.LevelID)
}

// Store keeps at most one active session per user in memory. Sessions are
// throwaway state: a crash or restart simply means the client starts a new
// one, so nothing here touches storage.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]*StoredSession
	byUser   map[string]uuid.UUID
}

// NewStore creates a Store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*StoredSession),
		byUser:   make(map[string]uuid.UUID),
	}
}

// Start registers a fresh session for the user, discarding any session the
// user already had (retry semantics: discard and reconstruct, never reset).
func (st *Store) Start(userID string, levelID int64, questions []models.Question) *StoredSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	if prev, ok := st.byUser[userID]; ok {
		st.removeLocked(prev)
	}

	ss := &StoredSession{
		ID:        uuid.New(),
		UserID:    userID,
		LevelID:   levelID,
		session:   NewSession(questions),
		touchedAt: time.Now(),
	}
	st.sessions[ss.ID] = ss
	st.byUser[userID] = ss.ID
	return ss
}

// Get returns the session by id, or nil.
func (st *Store) Get(id uuid.UUID) *StoredSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[id]
}

// Remove discards a session and stops any pending auto-advance timer, so a
// timer can never fire against a discarded session.
func (st *Store) Remove(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.removeLocked(id)
}

func (st *Store) removeLocked(id uuid.UUID) {
	ss, ok := st.sessions[id]
	if !ok {
		return
	}
	if ss.timer != nil {
		ss.timer.Stop()
	}
	delete(st.sessions, id)
	if st.byUser[ss.UserID] == id {
		delete(st.byUser, ss.UserID)
	}
}

// ScheduleAdvance arms the session's auto-advance timer, replacing any timer
// already pending. fn runs after delay unless the session is removed first.
func (st *Store) ScheduleAdvance(id uuid.UUID, delay time.Duration, fn func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.sessions[id]
	if !ok {
		return
	}
	if ss.timer != nil {
		ss.timer.Stop()
	}
	ss.timer = time.AfterFunc(delay, fn)
}

// CancelAdvance stops the session's pending timer, if any.
func (st *Store) CancelAdvance(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if ss, ok := st.sessions[id]; ok && ss.timer != nil {
		ss.timer.Stop()
		ss.timer = nil
	}
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	var expired []uuid.UUID
	for id, ss := range st.sessions {
		ss.mu.Lock()
		idle := now.Sub(ss.touchedAt)
		ss.mu.Unlock()
		if idle > st.ttl {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		st.removeLocked(id)
	}
	return len(expired)
}

// Run sweeps expired sessions on the given interval until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	log := logger.Default().WithPrefix("session_store")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("session sweeper stopped")
			return
		case now := <-ticker.C:
			if n := st.Sweep(now); n > 0 {
				log.Debug("swept %d expired sessions", n)
			}
		}
	}
}
