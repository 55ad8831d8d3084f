package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/timeline-backend-go/internal/middleware"
	"github.com/lifelog-labs/timeline-backend-go/internal/service"
	"github.com/lifelog-labs/timeline-backend-go/pkg/response"
)

// ReprocessHandler handles HTTP requests that trigger the derivation
// pipeline and timeline reconciliation
type ReprocessHandler struct {
	pipeline  *service.PipelineService
	reconcile *service.ReconcileService
}

// NewReprocessHandler creates a new reprocess handler
func NewReprocessHandler(pipeline *service.PipelineService, reconcile *service.ReconcileService) *ReprocessHandler {
	return &ReprocessHandler{pipeline: pipeline, reconcile: reconcile}
}

// ReprocessHour handles POST /api/v1/reprocess/hour/:hourStart
func (h *ReprocessHandler) ReprocessHour(c *gin.Context) {
	hourStart, err := parseHourParam(c.Param("hourStart"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hour start, expected RFC3339 or unix seconds", err)
		return
	}

	result, err := h.pipeline.ProcessHour(c.Request.Context(), middleware.UserID(c), hourStart)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to reprocess hour", err)
		return
	}

	response.Success(c, result)
}

// ReprocessDay handles POST /api/v1/reprocess/day/:date
func (h *ReprocessHandler) ReprocessDay(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	progress, err := h.pipeline.ProcessDay(c.Request.Context(), middleware.UserID(c), date)
	if err != nil {
		// Partial progress is still useful to the caller: processed
		// hours stay consistent and the run can be retried.
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":     http.StatusInternalServerError,
			"message":  "Day reprocessing failed partway",
			"progress": progress,
		})
		return
	}

	response.Success(c, progress)
}

// ReconcileHour handles POST /api/v1/reconcile/hour/:hourStart
func (h *ReprocessHandler) ReconcileHour(c *gin.Context) {
	hourStart, err := parseHourParam(c.Param("hourStart"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hour start, expected RFC3339 or unix seconds", err)
		return
	}

	ops, err := h.reconcile.ReconcileHour(c.Request.Context(), middleware.UserID(c), hourStart)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to reconcile hour", err)
		return
	}

	response.Success(c, ops)
}
