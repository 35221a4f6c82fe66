package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/config"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/session"
)

// ErrPremiumRequired gates session sizes above the free limit.
var ErrPremiumRequired = errors.New("premium entitlement required for this session size")

// StartSessionRequest is the quota configuration a candidate submits.
type StartSessionRequest struct {
	Quotas     map[string]int `json:"quotas" binding:"required"`
	PositionID *int           `json:"position_id" binding:"omitempty"`
}

// SessionSummary is the start/state payload for the configuration screen.
type SessionSummary struct {
	SessionID string        `json:"session_id"`
	Phase     session.Phase `json:"phase"`
	Current   int           `json:"current"`
	Total     int           `json:"total"`
	Answered  []int         `json:"answered"`
}

// PracticeService orchestrates the session engine: sampling, the in-memory
// session manager, and attempt recording through the Redis queue.
type PracticeService struct {
	cat     catalog.Catalog
	sampler *session.Sampler
	manager *session.Manager
	rdb     *redis.Client
	cfg     *config.Config
	log     zerolog.Logger
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(
	cat catalog.Catalog,
	sampler *session.Sampler,
	manager *session.Manager,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *PracticeService {
	return &PracticeService{
		cat:     cat,
		sampler: sampler,
		manager: manager,
		rdb:     rdb,
		cfg:     cfg,
		log:     log.With().Str("component", "practice_service").Logger(),
	}
}

// ListSubjects returns the subjects available for session configuration.
func (s *PracticeService) ListSubjects(ctx context.Context, positionID *int) ([]string, error) {
	return s.cat.ListSubjects(ctx, scopeFor(positionID))
}

// Start samples the quota configuration and opens a session for the user,
// replacing any previous one. Non-premium users are capped at the free
// question limit. A configuration that samples zero questions fails with
// session.ErrEmptyConfiguration.
func (s *PracticeService) Start(ctx context.Context, userID int, premium bool, req StartSessionRequest) (*session.Session, error) {
	total := 0
	for _, count := range req.Quotas {
		if count > 0 {
			total += count
		}
	}
	if !premium && total > s.cfg.FreeQuestionLimit {
		return nil, ErrPremiumRequired
	}

	items, err := s.sampler.Build(ctx, req.Quotas, scopeFor(req.PositionID))
	if err != nil {
		return nil, err
	}

	sess, err := session.New(userID, items, s.cfg.QuestionDeadline)
	if err != nil {
		return nil, err
	}
	s.manager.Put(sess)

	s.log.Info().
		Int("user_id", userID).
		Int("questions", len(items)).
		Str("session_id", sess.ID().String()).
		Msg("Practice session started")

	return sess, nil
}

// Get returns the user's active session.
func (s *PracticeService) Get(userID int) (*session.Session, error) {
	return s.manager.Get(userID)
}

// Abort destroys the user's session without recording an attempt.
func (s *PracticeService) Abort(userID int) {
	s.manager.Abort(userID)
}

// Finalize transitions the session to reviewing and, on the first call only,
// queues the attempt for history persistence.
func (s *PracticeService) Finalize(ctx context.Context, userID int) (session.Score, error) {
	sess, err := s.manager.Get(userID)
	if err != nil {
		return session.Score{}, err
	}

	score, first := sess.Finalize()
	if first {
		s.QueueAttempt(ctx, sess, score)
	}
	return score, nil
}

// QueueAttempt pushes a finished session's result onto the persistence queue.
// Sessions with nothing answered are not recorded. Failures are logged, not
// surfaced: history is best-effort and never blocks the review screen.
func (s *PracticeService) QueueAttempt(ctx context.Context, sess *session.Session, score session.Score) {
	if score.Answered == 0 {
		return
	}

	attempt := model.Attempt{
		UserID:     sess.UserID(),
		TakenAt:    time.Now(),
		Correct:    score.Correct,
		Answered:   score.Answered,
		Total:      score.Total,
		Percentage: float64(score.Correct) / float64(score.Answered) * 100,
	}

	raw, err := json.Marshal(attempt)
	if err != nil {
		s.log.Error().Err(err).Msg("Encode attempt failed")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Int("user_id", sess.UserID()).Msg("Queue attempt failed")
	}
}

// Summary builds the lightweight state payload of an active session.
func (s *PracticeService) Summary(sess *session.Session) SessionSummary {
	return SessionSummary{
		SessionID: sess.ID().String(),
		Phase:     sess.Phase(),
		Current:   sess.Current(),
		Total:     sess.Len(),
		Answered:  sess.AnsweredIndices(),
	}
}

func scopeFor(positionID *int) catalog.PositionScope {
	if positionID != nil {
		return catalog.ForPosition(*positionID)
	}
	return catalog.GeneralBank()
}
