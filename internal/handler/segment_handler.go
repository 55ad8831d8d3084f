package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/timeline-backend-go/internal/middleware"
	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/service"
	"github.com/lifelog-labs/timeline-backend-go/pkg/response"
)

// SegmentHandler handles HTTP requests for activity segments
type SegmentHandler struct {
	service *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(service *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{service: service}
}

// GetSegments handles GET /api/v1/segments
func (h *SegmentHandler) GetSegments(c *gin.Context) {
	var filter models.SegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	segments, total, err := h.service.GetSegments(middleware.UserID(c), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get segments", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, gin.H{
		"data":       segments,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
		"totalPages": totalPages,
	})
}

// GetSegmentsByHour handles GET /api/v1/segments/hour/:hourStart
func (h *SegmentHandler) GetSegmentsByHour(c *gin.Context) {
	hourStart, err := parseHourParam(c.Param("hourStart"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hour start, expected RFC3339 or unix seconds", err)
		return
	}

	segments, err := h.service.GetByHour(middleware.UserID(c), hourStart)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get segments", err)
		return
	}

	response.Success(c, gin.H{
		"hourStart": hourStart.UTC().Format(time.RFC3339),
		"segments":  segments,
	})
}
