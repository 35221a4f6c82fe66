package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/service"
	"github.com/simuconcursos/simulado-backend/internal/session"
)

// TimeoutWorker is the timing controller: it polls every active session once
// per second and fires the per-question deadline. Sessions finalized by a
// last-question timeout get their attempt queued here, since no user request
// is involved.
type TimeoutWorker struct {
	manager         *session.Manager
	practiceService *service.PracticeService
	log             zerolog.Logger
}

// NewTimeoutWorker creates a new TimeoutWorker.
func NewTimeoutWorker(manager *session.Manager, practiceService *service.PracticeService, log zerolog.Logger) *TimeoutWorker {
	return &TimeoutWorker{
		manager:         manager,
		practiceService: practiceService,
		log:             log.With().Str("component", "timeout_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *TimeoutWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case now := <-ticker.C:
			for _, sess := range w.manager.SweepTimeouts(now) {
				w.log.Info().
					Int("user_id", sess.UserID()).
					Str("session_id", sess.ID().String()).
					Msg("Session finalized by timeout")
				w.practiceService.QueueAttempt(ctx, sess, sess.Score())
			}
		}
	}
}
