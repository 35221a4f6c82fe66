// Package session implements the practice-exam engine: quota-based sampling,
// the answer-once session state machine, per-question timing, and scoring.
//
// A session is single-occupant: it is owned by the user interaction that
// created it and destroyed on abort or restart. The mutex only guards against
// the timeout sweeper, which runs on its own goroutine. The configuring state
// of the machine is represented by the absence of a session in the Manager.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/simuconcursos/simulado-backend/internal/model"
)

// Phase is the lifecycle state of a started session.
type Phase string

const (
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseReviewing  Phase = "REVIEWING"
)

// Direction moves the current index by one.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// Score is the outcome of a session. Percentage is graded against answered
// questions only and is nil when nothing was answered.
type Score struct {
	Correct    int  `json:"correct"`
	Answered   int  `json:"answered"`
	Total      int  `json:"total"`
	Percentage *int `json:"percentage"`
}

// Session is one run through a sampled, ordered question list. The item list
// is fixed at creation; the answer ledger is write-once per index.
type Session struct {
	mu sync.Mutex

	id     uuid.UUID
	userID int
	items  []model.Question

	answers       map[int]string
	current       int
	phase         Phase
	questionStart time.Time
	timerFired    bool
	deadline      time.Duration
	startedAt     time.Time
	finalScore    *Score

	clock func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock injects a time source. Tests use it to drive the deadline.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// New starts a session over a non-empty sampled item list. The deadline is
// the per-question time budget enforced by the timing controller.
func New(userID int, items []model.Question, deadline time.Duration, opts ...Option) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyConfiguration
	}

	s := &Session{
		id:       uuid.New(),
		userID:   userID,
		items:    items,
		answers:  make(map[int]string),
		phase:    PhaseInProgress,
		deadline: deadline,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	now := s.clock()
	s.startedAt = now
	s.questionStart = now
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }
func (s *Session) UserID() int   { return s.userID }

// Len returns the fixed number of questions in the session.
func (s *Session) Len() int { return len(s.items) }

// Phase returns the current lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Current returns the current question index.
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// RecordAnswer stores the chosen label for a question index. The first write
// wins: a second write to the same index is a silent no-op, reported through
// the returned bool. Writes are rejected while reviewing.
func (s *Session) RecordAnswer(index int, label string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseReviewing {
		return false, ErrReadOnlyState
	}
	if index < 0 || index >= len(s.items) {
		return false, ErrInvalidIndex
	}
	if _, answered := s.answers[index]; answered {
		return false, nil
	}

	s.answers[index] = label
	return true, nil
}

// Advance moves the current index by one, clamped to the session bounds.
// Landing on a new index re-arms that question's timer. Returns the index
// after the move.
func (s *Session) Advance(dir Direction) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	switch dir {
	case DirectionPrevious:
		next--
	default:
		next++
	}
	s.moveTo(clamp(next, 0, len(s.items)-1))
	return s.current
}

// Goto jumps straight to an index. Used for free navigation during review;
// while in progress it behaves like a sequence of advances, re-arming the
// timer.
func (s *Session) Goto(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return ErrInvalidIndex
	}
	s.moveTo(index)
	return nil
}

// moveTo updates the current index, resetting the elapsed-time origin when
// the index actually changes. Caller holds the lock.
func (s *Session) moveTo(index int) {
	if index == s.current {
		return
	}
	s.current = index
	s.questionStart = s.clock()
	s.timerFired = false
}

// Finalize transitions the session to reviewing and freezes the score. It is
// idempotent; the bool reports whether this call performed the transition, so
// exactly one caller records the attempt in history.
func (s *Session) Finalize() (Score, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalize()
}

func (s *Session) finalize() (Score, bool) {
	if s.phase == PhaseReviewing {
		return *s.finalScore, false
	}

	score := s.score()
	s.phase = PhaseReviewing
	s.finalScore = &score
	return score, true
}

// Score computes correctness counts from the ledger. Before finalization it
// reflects the ledger so far; afterwards it returns the frozen result.
func (s *Session) Score() Score {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalScore != nil {
		return *s.finalScore
	}
	return s.score()
}

func (s *Session) score() Score {
	sc := Score{Total: len(s.items)}
	for index, label := range s.answers {
		sc.Answered++
		if label == s.items[index].Correct {
			sc.Correct++
		}
	}
	if sc.Answered > 0 {
		pct := sc.Correct * 100 / sc.Answered
		sc.Percentage = &pct
	}
	return sc
}

// TimeoutIfExpired is the timing controller's poll hook. When the current
// question's deadline has passed it fires at most once per armed index: an
// unanswered question is force-advanced (or the session finalized on the last
// index); an answered one is left for the user to advance. A deadline
// superseded by an index change never fires because moveTo re-armed the
// timer under the same lock.
func (s *Session) TimeoutIfExpired(now time.Time) (fired, finalized bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress || s.timerFired {
		return false, false
	}
	if now.Sub(s.questionStart) < s.deadline {
		return false, false
	}

	s.timerFired = true
	if _, answered := s.answers[s.current]; answered {
		return false, false
	}

	if s.current == len(s.items)-1 {
		_, first := s.finalize()
		return true, first
	}
	s.moveTo(s.current + 1)
	return true, false
}

// Remaining returns the time left on the current question, zero while
// reviewing.
func (s *Session) Remaining(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return 0
	}
	left := s.deadline - now.Sub(s.questionStart)
	if left < 0 {
		return 0
	}
	return left
}

// AnsweredIndices returns the ledger-present indices in ascending order,
// backing the "review only answered" sub-view without mutating the session.
func (s *Session) AnsweredIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	indices := make([]int, 0, len(s.answers))
	for i := range s.items {
		if _, ok := s.answers[i]; ok {
			indices = append(indices, i)
		}
	}
	return indices
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
