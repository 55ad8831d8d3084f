package service

import (
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/repository"
)

// SummaryService handles business logic for hourly summaries
type SummaryService struct {
	repo *repository.SummaryRepository
}

// NewSummaryService creates a new summary service
func NewSummaryService(repo *repository.SummaryRepository) *SummaryService {
	return &SummaryService{repo: repo}
}

// GetSummaries retrieves summaries with filtering and pagination
func (s *SummaryService) GetSummaries(userID string, filter models.SummaryFilter) ([]models.HourlySummary, int64, error) {
	return s.repo.GetSummaries(userID, filter)
}

// GetByHour retrieves the summary for one hour, or nil when absent
func (s *SummaryService) GetByHour(userID string, hourStart time.Time) (*models.HourlySummary, error) {
	return s.repo.GetByHour(userID, hourStart.Truncate(time.Hour))
}

// Lock marks a summary as user-confirmed
func (s *SummaryService) Lock(userID string, hourStart time.Time) error {
	return s.repo.Lock(userID, hourStart.Truncate(time.Hour), time.Now().UTC())
}

// SetFeedback records user feedback on a summary
func (s *SummaryService) SetFeedback(userID string, hourStart time.Time, feedback string) error {
	return s.repo.SetFeedback(userID, hourStart.Truncate(time.Hour), feedback)
}
