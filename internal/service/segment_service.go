package service

import (
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/repository"
)

// SegmentService handles business logic for activity segments
type SegmentService struct {
	repo *repository.ActivitySegmentRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(repo *repository.ActivitySegmentRepository) *SegmentService {
	return &SegmentService{repo: repo}
}

// GetSegments retrieves segments with filtering and pagination
func (s *SegmentService) GetSegments(userID string, filter models.SegmentFilter) ([]models.ActivitySegment, int64, error) {
	return s.repo.GetSegments(userID, filter)
}

// GetByHour retrieves all segments of one hour bucket
func (s *SegmentService) GetByHour(userID string, hourStart time.Time) ([]models.ActivitySegment, error) {
	return s.repo.GetByHour(userID, hourStart.Truncate(time.Hour))
}
