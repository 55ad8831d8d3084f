package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/repository"
)

// EventService handles business logic for timeline events
type EventService struct {
	repo *repository.EventRepository
}

// NewEventService creates a new event service
func NewEventService(repo *repository.EventRepository) *EventService {
	return &EventService{repo: repo}
}

// ListEvents retrieves events with filtering
func (s *EventService) ListEvents(userID string, filter models.EventFilter) ([]models.TimelineEvent, error) {
	return s.repo.ListEvents(userID, filter)
}

// CreateUserEvent persists a user-authored event. User events are
// protected: reconciliation never modifies or deletes them.
func (s *EventService) CreateUserEvent(userID, title string, start, end time.Time) (models.TimelineEvent, error) {
	if !end.After(start) {
		return models.TimelineEvent{}, fmt.Errorf("event end must be after start")
	}

	event := models.TimelineEvent{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Start:  start,
		End:    end,
		Meta: models.EventMeta{
			Source:  models.SourceUser,
			Kind:    models.KindSessionBlock,
			Session: &models.SessionBlockMeta{},
		},
	}

	if err := s.repo.Insert(event); err != nil {
		return models.TimelineEvent{}, err
	}
	return event, nil
}

// Lock protects an event from reconciliation
func (s *EventService) Lock(userID, eventID string) error {
	now := time.Now().UTC()
	return s.repo.SetLock(userID, eventID, &now)
}

// Unlock removes an event's protection
func (s *EventService) Unlock(userID, eventID string) error {
	return s.repo.SetLock(userID, eventID, nil)
}
