package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/ingest"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/repository"
)

// QuestionService handles manual question authoring and maintenance.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// Create stores a manually authored question. The fingerprint is computed up
// front so manual items participate in duplicate detection; a collision with
// an existing question surfaces as catalog.ErrConflict.
func (s *QuestionService) Create(ctx context.Context, req model.CreateQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		PositionID:  req.PositionID,
		Statement:   ingest.Normalize(req.Statement),
		Options:     make(map[string]string, len(req.Options)),
		Correct:     req.Correct,
		Subject:     req.Subject,
		Board:       req.Board,
		Year:        req.Year,
		Agency:      req.Agency,
		Origin:      model.OriginManual,
	}
	for label, text := range req.Options {
		q.Options[strings.ToUpper(label)] = ingest.Normalize(text)
	}
	q.Fingerprint = ingest.Fingerprint(q.Statement)

	if err := s.questionRepo.Insert(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns one question.
func (s *QuestionService) Get(ctx context.Context, id int) (*model.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// List returns a page of the bank, newest first.
func (s *QuestionService) List(ctx context.Context, page, perPage int) ([]model.Question, int64, error) {
	return s.questionRepo.List(ctx, page, perPage)
}

// SetExplanation attaches or replaces a question's explanatory text.
func (s *QuestionService) SetExplanation(ctx context.Context, id int, text string) error {
	return s.questionRepo.SetExplanation(ctx, id, text)
}

// Delete removes a question from the bank.
func (s *QuestionService) Delete(ctx context.Context, id int) error {
	return s.questionRepo.Delete(ctx, id)
}
