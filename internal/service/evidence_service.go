package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/repository"
)

// EvidenceService handles ingestion of raw evidence and management of
// user-labeled places
type EvidenceService struct {
	repo *repository.EvidenceRepository
}

// NewEvidenceService creates a new evidence service
func NewEvidenceService(repo *repository.EvidenceRepository) *EvidenceService {
	return &EvidenceService{repo: repo}
}

// IngestSamples validates and stores a batch of location samples
func (s *EvidenceService) IngestSamples(userID string, samples []models.LocationSample) (int, error) {
	valid := samples[:0]
	for _, sample := range samples {
		if sample.Latitude < -90 || sample.Latitude > 90 ||
			sample.Longitude < -180 || sample.Longitude > 180 {
			continue
		}
		if sample.Timestamp.IsZero() {
			continue
		}
		sample.UserID = userID
		valid = append(valid, sample)
	}

	if err := s.repo.InsertSamples(valid); err != nil {
		return 0, err
	}
	return len(valid), nil
}

// IngestScreenSessions validates and stores a batch of screen sessions
func (s *EvidenceService) IngestScreenSessions(userID string, sessions []models.ScreenSession) (int, error) {
	valid := sessions[:0]
	for _, session := range sessions {
		if session.AppID == "" || !session.End.After(session.Start) {
			continue
		}
		session.UserID = userID
		valid = append(valid, session)
	}

	if err := s.repo.InsertScreenSessions(valid); err != nil {
		return 0, err
	}
	return len(valid), nil
}

// IngestWorkouts validates and stores a batch of health workouts
func (s *EvidenceService) IngestWorkouts(userID string, workouts []models.HealthWorkout) (int, error) {
	valid := workouts[:0]
	for _, workout := range workouts {
		if workout.ActivityType == "" || !workout.End.After(workout.Start) {
			continue
		}
		workout.UserID = userID
		valid = append(valid, workout)
	}

	if err := s.repo.InsertWorkouts(valid); err != nil {
		return 0, err
	}
	return len(valid), nil
}

// GetUserPlaces lists a user's labeled places
func (s *EvidenceService) GetUserPlaces(userID string) ([]models.UserPlace, error) {
	return s.repo.GetUserPlaces(userID)
}

// SaveUserPlace creates or updates a labeled place
func (s *EvidenceService) SaveUserPlace(userID string, place models.UserPlace) (models.UserPlace, error) {
	if place.Label == "" {
		return models.UserPlace{}, fmt.Errorf("place label is required")
	}
	if place.ID == "" {
		place.ID = uuid.NewString()
	}
	if place.Category == "" {
		place.Category = models.PlaceCategoryOther
	}
	if place.RadiusMeters <= 0 {
		place.RadiusMeters = 100
	}
	place.UserID = userID

	if err := s.repo.UpsertUserPlace(place); err != nil {
		return models.UserPlace{}, err
	}
	return place, nil
}

// DeleteUserPlace removes a labeled place
func (s *EvidenceService) DeleteUserPlace(userID, placeID string) error {
	return s.repo.DeleteUserPlace(userID, placeID)
}
