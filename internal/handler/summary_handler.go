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

// SummaryHandler handles HTTP requests for hourly summaries
type SummaryHandler struct {
	service *service.SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(service *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// GetSummaries handles GET /api/v1/summaries
func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	var filter models.SummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	summaries, total, err := h.service.GetSummaries(middleware.UserID(c), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get summaries", err)
		return
	}

	response.Success(c, gin.H{
		"data":  summaries,
		"total": total,
	})
}

// GetSummaryByHour handles GET /api/v1/summaries/hour/:hourStart
func (h *SummaryHandler) GetSummaryByHour(c *gin.Context) {
	hourStart, err := parseHourParam(c.Param("hourStart"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hour start, expected RFC3339 or unix seconds", err)
		return
	}

	summary, err := h.service.GetByHour(middleware.UserID(c), hourStart)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get summary", err)
		return
	}
	if summary == nil {
		response.NotFound(c, "No summary for this hour")
		return
	}

	response.Success(c, summary)
}

// LockSummary handles POST /api/v1/summaries/hour/:hourStart/lock
func (h *SummaryHandler) LockSummary(c *gin.Context) {
	hourStart, err := parseHourParam(c.Param("hourStart"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hour start, expected RFC3339 or unix seconds", err)
		return
	}

	if err := h.service.Lock(middleware.UserID(c), hourStart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "No unlockable summary for this hour")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to lock summary", err)
		return
	}

	response.Success(c, gin.H{"locked": true})
}

// SetFeedback handles POST /api/v1/summaries/hour/:hourStart/feedback
func (h *SummaryHandler) SetFeedback(c *gin.Context) {
	hourStart, err := parseHourParam(c.Param("hourStart"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hour start, expected RFC3339 or unix seconds", err)
		return
	}

	var req struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.SetFeedback(middleware.UserID(c), hourStart, req.Feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "No summary for this hour")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to set feedback", err)
		return
	}

	response.Success(c, gin.H{"saved": true})
}
