// Package catalog defines read/write access to the question bank. The
// PostgreSQL implementation lives in internal/repository; the in-memory
// implementation in this package backs deterministic engine tests and the
// ingestion pipeline's own tests.
package catalog

import (
	"context"
	"errors"

	"github.com/simuconcursos/simulado-backend/internal/model"
)

var (
	// ErrNotFound is returned when no question matches a lookup.
	ErrNotFound = errors.New("question not found")
	// ErrConflict is returned when an insert violates the fingerprint
	// uniqueness constraint (the check-then-insert race lost).
	ErrConflict = errors.New("fingerprint already exists")
)

// PositionScope restricts sampling and subject listing to one position's bank
// or to the general bank (questions with no position).
type PositionScope struct {
	positionID  int
	hasPosition bool
}

// ForPosition scopes queries to a single position id.
func ForPosition(id int) PositionScope {
	return PositionScope{positionID: id, hasPosition: true}
}

// GeneralBank scopes queries to questions with no position.
func GeneralBank() PositionScope {
	return PositionScope{}
}

// PositionID reports the scoped position id, if any.
func (s PositionScope) PositionID() (int, bool) {
	return s.positionID, s.hasPosition
}

// Matches reports whether a question's position assignment falls in the scope.
func (s PositionScope) Matches(positionID *int) bool {
	if !s.hasPosition {
		return positionID == nil
	}
	return positionID != nil && *positionID == s.positionID
}

// Catalog is the question bank contract shared by the session engine and the
// ingestion pipeline.
type Catalog interface {
	// Sample returns up to count questions matching subject and scope, chosen
	// uniformly without replacement. A shortfall is not an error: fewer (or
	// zero) questions than requested simply returns what exists.
	Sample(ctx context.Context, subject string, count int, scope PositionScope) ([]model.Question, error)

	// FindByFingerprint returns the question with the given fingerprint, or
	// ErrNotFound.
	FindByFingerprint(ctx context.Context, fp string) (*model.Question, error)

	// Insert stores a new question and fills in its id. Returns ErrConflict
	// if the fingerprint uniqueness constraint is violated.
	Insert(ctx context.Context, q *model.Question) error

	// GetByID returns one question or ErrNotFound.
	GetByID(ctx context.Context, id int) (*model.Question, error)

	// Delete removes a question. Deleting an absent id is not an error.
	Delete(ctx context.Context, id int) error

	// ListSubjects returns the distinct subjects in scope, sorted.
	ListSubjects(ctx context.Context, scope PositionScope) ([]string, error)

	// SetExplanation attaches or replaces a question's explanatory text.
	SetExplanation(ctx context.Context, id int, text string) error

	// ListMissingFingerprint returns questions whose fingerprint was never
	// computed (legacy manually authored rows).
	ListMissingFingerprint(ctx context.Context) ([]model.Question, error)

	// BackfillFingerprint stores a computed fingerprint and origin on a
	// legacy question.
	BackfillFingerprint(ctx context.Context, id int, fp string, origin model.Origin) error

	// DuplicateGroups returns every set of questions sharing one fingerprint,
	// each group ordered by ascending id. Only groups of two or more are
	// returned.
	DuplicateGroups(ctx context.Context) ([][]model.Question, error)
}
