package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/config"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/repository"
)

// attemptBatchSize caps how many queued attempts are folded into one insert.
const attemptBatchSize = 50

// AttemptWorker consumes persist_attempts_queue and bulk-inserts attempt
// history rows into PostgreSQL.
type AttemptWorker struct {
	attemptRepo *repository.AttemptRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAttemptWorker creates a new AttemptWorker.
func NewAttemptWorker(attemptRepo *repository.AttemptRepository, rdb *redis.Client, log zerolog.Logger) *AttemptWorker {
	return &AttemptWorker{
		attemptRepo: attemptRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *AttemptWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *AttemptWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second), then
	// the batch is topped up with whatever else is already queued.
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistAttemptsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	raw := [][]byte{[]byte(result[1])}
	for len(raw) < attemptBatchSize {
		item, err := w.rdb.LPop(ctx, config.WorkerKey.PersistAttemptsQueue).Result()
		if err != nil {
			break
		}
		raw = append(raw, []byte(item))
	}

	attempts := make([]model.Attempt, 0, len(raw))
	for _, item := range raw {
		var a model.Attempt
		if err := json.Unmarshal(item, &a); err != nil {
			w.log.Error().Err(err).Msg("Unmarshal error, dropping item")
			continue
		}
		attempts = append(attempts, a)
	}
	if len(attempts) == 0 {
		return
	}

	if err := w.attemptRepo.BulkInsert(ctx, attempts); err != nil {
		w.log.Error().Err(err).Int("batch", len(attempts)).Msg("Bulk insert failed, retrying per item")
		w.insertIndividually(ctx, attempts)
	}
}

// insertIndividually falls back to row-by-row inserts so one poison item
// cannot sink a whole batch. Rows that still fail are requeued.
func (w *AttemptWorker) insertIndividually(ctx context.Context, attempts []model.Attempt) {
	for i := range attempts {
		if err := w.attemptRepo.Insert(ctx, &attempts[i]); err != nil {
			w.log.Error().Err(err).
				Int("user_id", attempts[i].UserID).
				Msg("Insert failed, requeueing")
			if raw, merr := json.Marshal(attempts[i]); merr == nil {
				w.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, raw)
			}
			time.Sleep(5 * time.Second)
		}
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *AttemptWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistAttemptsQueue).Result()
		if err != nil {
			break
		}

		var a model.Attempt
		if err := json.Unmarshal([]byte(result), &a); err != nil {
			continue
		}
		if err := w.attemptRepo.Insert(ctx, &a); err != nil {
			w.log.Error().Err(err).Msg("Drain insert failed")
			continue
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("drained", drained).Msg("Drained queue on shutdown")
	}
}
