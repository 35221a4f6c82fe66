package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simuconcursos/simulado-backend/internal/model"
)

// AttemptRepository handles the practice history.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// BulkInsert stores a batch of attempts with one UNNEST insert.
func (r *AttemptRepository) BulkInsert(ctx context.Context, attempts []model.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}

	n := len(attempts)
	userIDs := make([]int, 0, n)
	takenAts := make([]time.Time, 0, n)
	corrects := make([]int, 0, n)
	answereds := make([]int, 0, n)
	totals := make([]int, 0, n)
	percentages := make([]float64, 0, n)

	for _, a := range attempts {
		userIDs = append(userIDs, a.UserID)
		takenAts = append(takenAts, a.TakenAt)
		corrects = append(corrects, a.Correct)
		answereds = append(answereds, a.Answered)
		totals = append(totals, a.Total)
		percentages = append(percentages, a.Percentage)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempts (user_id, taken_at, correct, answered, total, percentage)
		 SELECT * FROM UNNEST(
			$1::int[],
			$2::timestamptz[],
			$3::int[],
			$4::int[],
			$5::int[],
			$6::float8[]
		 )`,
		userIDs, takenAts, corrects, answereds, totals, percentages,
	)
	return err
}

// Insert stores a single attempt. Fallback path when a bulk write fails.
func (r *AttemptRepository) Insert(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (user_id, taken_at, correct, answered, total, percentage)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		a.UserID, a.TakenAt, a.Correct, a.Answered, a.Total, a.Percentage,
	).Scan(&a.ID)
}

// ListByUser returns a user's attempts, oldest first, for the progress chart.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, taken_at, correct, answered, total, percentage
		 FROM attempts
		 WHERE user_id = $1
		 ORDER BY taken_at`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.TakenAt, &a.Correct, &a.Answered, &a.Total, &a.Percentage); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
