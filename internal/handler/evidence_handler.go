package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/timeline-backend-go/internal/middleware"
	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/service"
	"github.com/lifelog-labs/timeline-backend-go/pkg/response"
)

// EvidenceHandler handles HTTP requests for evidence ingestion and
// user place management
type EvidenceHandler struct {
	service *service.EvidenceService
}

// NewEvidenceHandler creates a new evidence handler
func NewEvidenceHandler(service *service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{service: service}
}

// IngestSamples handles POST /api/v1/evidence/samples
func (h *EvidenceHandler) IngestSamples(c *gin.Context) {
	var samples []models.LocationSample
	if err := c.ShouldBindJSON(&samples); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	accepted, err := h.service.IngestSamples(middleware.UserID(c), samples)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to store location samples", err)
		return
	}

	response.Success(c, gin.H{"accepted": accepted, "received": len(samples)})
}

// IngestScreenSessions handles POST /api/v1/evidence/screen-sessions
func (h *EvidenceHandler) IngestScreenSessions(c *gin.Context) {
	var sessions []models.ScreenSession
	if err := c.ShouldBindJSON(&sessions); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	accepted, err := h.service.IngestScreenSessions(middleware.UserID(c), sessions)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to store screen sessions", err)
		return
	}

	response.Success(c, gin.H{"accepted": accepted, "received": len(sessions)})
}

// IngestWorkouts handles POST /api/v1/evidence/workouts
func (h *EvidenceHandler) IngestWorkouts(c *gin.Context) {
	var workouts []models.HealthWorkout
	if err := c.ShouldBindJSON(&workouts); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	accepted, err := h.service.IngestWorkouts(middleware.UserID(c), workouts)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to store workouts", err)
		return
	}

	response.Success(c, gin.H{"accepted": accepted, "received": len(workouts)})
}

// GetPlaces handles GET /api/v1/places
func (h *EvidenceHandler) GetPlaces(c *gin.Context) {
	places, err := h.service.GetUserPlaces(middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get places", err)
		return
	}

	response.Success(c, gin.H{"data": places, "total": len(places)})
}

// SavePlace handles POST /api/v1/places
func (h *EvidenceHandler) SavePlace(c *gin.Context) {
	var place models.UserPlace
	if err := c.ShouldBindJSON(&place); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	saved, err := h.service.SaveUserPlace(middleware.UserID(c), place)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to save place", err)
		return
	}

	response.Success(c, saved)
}

// DeletePlace handles DELETE /api/v1/places/:id
func (h *EvidenceHandler) DeletePlace(c *gin.Context) {
	if err := h.service.DeleteUserPlace(middleware.UserID(c), c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "Place not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to delete place", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
