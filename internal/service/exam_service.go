package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/repository"
)

// ExamService handles the exam/position hierarchy.
type ExamService struct {
	examRepo *repository.ExamRepository
	log      zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, log zerolog.Logger) *ExamService {
	return &ExamService{
		examRepo: examRepo,
		log:      log.With().Str("component", "exam_service").Logger(),
	}
}

func (s *ExamService) ListExams(ctx context.Context) ([]model.Exam, error) {
	return s.examRepo.ListExams(ctx)
}

func (s *ExamService) CreateExam(ctx context.Context, e *model.Exam) error {
	return s.examRepo.CreateExam(ctx, e)
}

func (s *ExamService) DeleteExam(ctx context.Context, id int) error {
	return s.examRepo.DeleteExam(ctx, id)
}

func (s *ExamService) ListPositions(ctx context.Context, examID int) ([]model.Position, error) {
	return s.examRepo.ListPositions(ctx, examID)
}

func (s *ExamService) CreatePosition(ctx context.Context, p *model.Position) error {
	return s.examRepo.CreatePosition(ctx, p)
}

func (s *ExamService) GetPosition(ctx context.Context, id int) (*model.Position, error) {
	return s.examRepo.GetPosition(ctx, id)
}

func (s *ExamService) DeletePosition(ctx context.Context, id int) error {
	return s.examRepo.DeletePosition(ctx, id)
}
