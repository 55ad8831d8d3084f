package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifelog-labs/timeline-backend-go/internal/config"
	"github.com/lifelog-labs/timeline-backend-go/internal/handler"
	"github.com/lifelog-labs/timeline-backend-go/internal/middleware"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Evidence  *handler.EvidenceHandler
	Segment   *handler.SegmentHandler
	Summary   *handler.SummaryHandler
	Event     *handler.EventHandler
	Reprocess *handler.ReprocessHandler
}

// SetupRouter builds the gin engine with middleware and all routes
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Timeline Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RateLimit(300, time.Minute))
	{
		evidence := api.Group("/evidence")
		{
			evidence.POST("/samples", h.Evidence.IngestSamples)
			evidence.POST("/screen-sessions", h.Evidence.IngestScreenSessions)
			evidence.POST("/workouts", h.Evidence.IngestWorkouts)
		}

		places := api.Group("/places")
		{
			places.GET("", h.Evidence.GetPlaces)
			places.POST("", h.Evidence.SavePlace)
			places.DELETE("/:id", h.Evidence.DeletePlace)
		}

		segments := api.Group("/segments")
		{
			segments.GET("", h.Segment.GetSegments)
			segments.GET("/hour/:hourStart", h.Segment.GetSegmentsByHour)
		}

		summaries := api.Group("/summaries")
		{
			summaries.GET("", h.Summary.GetSummaries)
			summaries.GET("/hour/:hourStart", h.Summary.GetSummaryByHour)
			summaries.POST("/hour/:hourStart/lock", h.Summary.LockSummary)
			summaries.POST("/hour/:hourStart/feedback", h.Summary.SetFeedback)
		}

		events := api.Group("/events")
		{
			events.GET("", h.Event.ListEvents)
			events.POST("", h.Event.CreateEvent)
			events.POST("/:id/lock", h.Event.LockEvent)
			events.DELETE("/:id/lock", h.Event.UnlockEvent)
		}

		api.POST("/reprocess/hour/:hourStart", h.Reprocess.ReprocessHour)
		api.POST("/reprocess/day/:date", h.Reprocess.ReprocessDay)
		api.POST("/reconcile/hour/:hourStart", h.Reprocess.ReconcileHour)
	}

	return r
}
