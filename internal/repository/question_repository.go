package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/model"
)

const pgUniqueViolation = "23505"

// QuestionRepository is the PostgreSQL question bank. It implements
// catalog.Catalog: the fingerprint unique index is the sole concurrency
// safety mechanism turning the ingestion check-then-insert race into
// catalog.ErrConflict.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, position_id, statement, options, correct, subject,
	 COALESCE(board, ''), year, COALESCE(agency, ''), COALESCE(explanation, ''),
	 origin, COALESCE(fingerprint, '')`

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	var options []byte
	if err := row.Scan(&q.ID, &q.PositionID, &q.Statement, &options, &q.Correct,
		&q.Subject, &q.Board, &q.Year, &q.Agency, &q.Explanation, &q.Origin, &q.Fingerprint); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return &q, nil
}

func scopeClause(scope catalog.PositionScope, args []any) (string, []any) {
	if id, ok := scope.PositionID(); ok {
		args = append(args, id)
		return fmt.Sprintf("position_id = $%d", len(args)), args
	}
	return "position_id IS NULL", args
}

// Sample draws up to count random questions matching subject and scope.
// A shortfall returns fewer rows, never an error.
func (r *QuestionRepository) Sample(ctx context.Context, subject string, count int, scope catalog.PositionScope) ([]model.Question, error) {
	args := []any{subject}
	clause, args := scopeClause(scope, args)
	args = append(args, count)

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE subject = $1 AND `+clause+`
		 ORDER BY random()
		 LIMIT $`+fmt.Sprint(len(args)), args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// FindByFingerprint returns the question carrying fp, or catalog.ErrNotFound.
func (r *QuestionRepository) FindByFingerprint(ctx context.Context, fp string) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE fingerprint = $1`, fp,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	return q, err
}

// Insert stores a new question. A fingerprint unique violation is returned
// as catalog.ErrConflict.
func (r *QuestionRepository) Insert(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO questions (position_id, statement, options, correct, subject, board, year, agency, explanation, origin, fingerprint)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), $10, NULLIF($11, ''))
		 RETURNING id`,
		q.PositionID, q.Statement, options, q.Correct, q.Subject, q.Board, q.Year, q.Agency, q.Explanation, q.Origin, q.Fingerprint,
	).Scan(&q.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return catalog.ErrConflict
	}
	return err
}

// GetByID returns one question or catalog.ErrNotFound.
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	return q, err
}

// Delete removes a question. Absent ids are not an error.
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

// ListSubjects returns the distinct subjects in scope, sorted.
func (r *QuestionRepository) ListSubjects(ctx context.Context, scope catalog.PositionScope) ([]string, error) {
	var args []any
	clause, args := scopeClause(scope, args)

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT subject FROM questions WHERE `+clause+` ORDER BY subject`, args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// SetExplanation attaches or replaces a question's explanatory text.
func (r *QuestionRepository) SetExplanation(ctx context.Context, id int, text string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET explanation = $1 WHERE id = $2`, text, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// ListMissingFingerprint returns legacy questions without a fingerprint.
func (r *QuestionRepository) ListMissingFingerprint(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE fingerprint IS NULL OR fingerprint = ''
		 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// BackfillFingerprint stores a computed fingerprint and origin on a legacy
// question.
func (r *QuestionRepository) BackfillFingerprint(ctx context.Context, id int, fp string, origin model.Origin) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET fingerprint = $1, origin = $2 WHERE id = $3`, fp, origin, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// DuplicateGroups returns every set of questions sharing one fingerprint,
// ordered by fingerprint and ascending id within each group.
func (r *QuestionRepository) DuplicateGroups(ctx context.Context) ([][]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE fingerprint IN (
			SELECT fingerprint FROM questions
			WHERE fingerprint IS NOT NULL AND fingerprint <> ''
			GROUP BY fingerprint
			HAVING COUNT(*) > 1
		 )
		 ORDER BY fingerprint, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all, err := collectQuestions(rows)
	if err != nil {
		return nil, err
	}

	var groups [][]model.Question
	var current []model.Question
	for _, q := range all {
		if len(current) > 0 && current[0].Fingerprint != q.Fingerprint {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, q)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups, nil
}

// List returns a page of the bank for the admin screens, newest first.
func (r *QuestionRepository) List(ctx context.Context, page, perPage int) ([]model.Question, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 ORDER BY id DESC
		 LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := collectQuestions(rows)
	return questions, total, err
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}
