package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simuconcursos/simulado-backend/internal/model"
)

// ErrExamNotFound is returned when no exam or position matches a lookup.
var ErrExamNotFound = errors.New("exam not found")

// ExamRepository handles the exam/position hierarchy.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// ListExams returns all exams ordered by name.
func (r *ExamRepository) ListExams(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM exams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// CreateExam inserts a new exam.
func (r *ExamRepository) CreateExam(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (name) VALUES ($1) RETURNING id, created_at`,
		e.Name,
	).Scan(&e.ID, &e.CreatedAt)
}

// DeleteExam removes an exam and, through FK cascade, its positions.
func (r *ExamRepository) DeleteExam(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

// ListPositions returns the positions of one exam ordered by name.
func (r *ExamRepository) ListPositions(ctx context.Context, examID int) ([]model.Position, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, name FROM positions WHERE exam_id = $1 ORDER BY name`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.ID, &p.ExamID, &p.Name); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// CreatePosition inserts a new position under an exam.
func (r *ExamRepository) CreatePosition(ctx context.Context, p *model.Position) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO positions (exam_id, name) VALUES ($1, $2) RETURNING id`,
		p.ExamID, p.Name,
	).Scan(&p.ID)
}

// GetPosition returns one position or ErrExamNotFound.
func (r *ExamRepository) GetPosition(ctx context.Context, id int) (*model.Position, error) {
	p := &model.Position{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, name FROM positions WHERE id = $1`, id,
	).Scan(&p.ID, &p.ExamID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePosition removes a position; its questions fall back to the general
// bank through the FK's ON DELETE SET NULL.
func (r *ExamRepository) DeletePosition(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	return err
}
