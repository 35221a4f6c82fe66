package service

import (
	"context"

	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/repository"
)

// ProgressStats is the payload behind the progress chart: the raw attempt
// series plus aggregate figures.
type ProgressStats struct {
	Attempts          []model.Attempt `json:"attempts"`
	TotalAttempts     int             `json:"total_attempts"`
	TotalAnswered     int             `json:"total_answered"`
	TotalCorrect      int             `json:"total_correct"`
	AveragePercentage float64         `json:"average_percentage"`
}

// StatsService summarizes a user's practice history.
type StatsService struct {
	attemptRepo *repository.AttemptRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(attemptRepo *repository.AttemptRepository) *StatsService {
	return &StatsService{attemptRepo: attemptRepo}
}

// Progress returns the attempt series and summary for one user.
func (s *StatsService) Progress(ctx context.Context, userID int) (*ProgressStats, error) {
	attempts, err := s.attemptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &ProgressStats{
		Attempts:      attempts,
		TotalAttempts: len(attempts),
	}

	var pctSum float64
	for _, a := range attempts {
		stats.TotalAnswered += a.Answered
		stats.TotalCorrect += a.Correct
		pctSum += a.Percentage
	}
	if len(attempts) > 0 {
		stats.AveragePercentage = pctSum / float64(len(attempts))
	}
	return stats, nil
}
