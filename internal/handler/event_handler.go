package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/timeline-backend-go/internal/middleware"
	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/service"
	"github.com/lifelog-labs/timeline-backend-go/pkg/response"
)

// EventHandler handles HTTP requests for timeline events
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(service *service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// ListEvents handles GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	var filter models.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	events, err := h.service.ListEvents(middleware.UserID(c), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	response.Success(c, gin.H{
		"data":  events,
		"total": len(events),
	})
}

// CreateEvent handles POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req struct {
		Title string    `json:"title" binding:"required"`
		Start time.Time `json:"start" binding:"required"`
		End   time.Time `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	event, err := h.service.CreateUserEvent(middleware.UserID(c), req.Title, req.Start, req.End)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to create event", err)
		return
	}

	response.Success(c, event)
}

// LockEvent handles POST /api/v1/events/:id/lock
func (h *EventHandler) LockEvent(c *gin.Context) {
	if err := h.service.Lock(middleware.UserID(c), c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "Event not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to lock event", err)
		return
	}
	response.Success(c, gin.H{"locked": true})
}

// UnlockEvent handles DELETE /api/v1/events/:id/lock
func (h *EventHandler) UnlockEvent(c *gin.Context) {
	if err := h.service.Unlock(middleware.UserID(c), c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "Event not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to unlock event", err)
		return
	}
	response.Success(c, gin.H{"locked": false})
}
