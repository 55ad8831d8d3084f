package main

import (
	"log"

	"github.com/lifelog-labs/timeline-backend-go/internal/api"
	"github.com/lifelog-labs/timeline-backend-go/internal/config"
	"github.com/lifelog-labs/timeline-backend-go/internal/database"
	"github.com/lifelog-labs/timeline-backend-go/internal/handler"
	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/repository"
	"github.com/lifelog-labs/timeline-backend-go/internal/service"
	"github.com/lifelog-labs/timeline-backend-go/internal/timeline/place"
	"github.com/lifelog-labs/timeline-backend-go/internal/timeline/segments"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := database.NewMigrationManager(db).RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	segmentCfg := segments.DefaultConfig()
	if cfg.SegmentConfigPath != "" {
		segmentCfg, err = segments.LoadConfig(cfg.SegmentConfigPath)
		if err != nil {
			log.Fatal("Failed to load segment config:", err)
		}
	}

	catalog := models.DefaultAppCatalog()
	if cfg.AppCatalogPath != "" {
		catalog, err = models.LoadAppCatalog(cfg.AppCatalogPath)
		if err != nil {
			log.Fatal("Failed to load app catalog:", err)
		}
	}

	var placeNames *service.PlaceNameService
	if cfg.PlaceCatalogPath != "" {
		placeCatalog, err := place.LoadCatalog(cfg.PlaceCatalogPath)
		if err != nil {
			log.Fatal("Failed to load place catalog:", err)
		}
		placeNames = service.NewPlaceNameService(placeCatalog, service.NewLabelCache())
		log.Printf("Place catalog loaded with %d entries", placeCatalog.Len())
	}

	// Repositories
	evidenceRepo := repository.NewEvidenceRepository(db)
	segmentRepo := repository.NewActivitySegmentRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Services
	generator := segments.NewGenerator(segmentCfg, catalog)
	pipeline := service.NewPipelineService(evidenceRepo, segmentRepo, summaryRepo, generator, placeNames)
	reconcile := service.NewReconcileService(segmentRepo, evidenceRepo, eventRepo)

	handlers := api.Handlers{
		Evidence:  handler.NewEvidenceHandler(service.NewEvidenceService(evidenceRepo)),
		Segment:   handler.NewSegmentHandler(service.NewSegmentService(segmentRepo)),
		Summary:   handler.NewSummaryHandler(service.NewSummaryService(summaryRepo)),
		Event:     handler.NewEventHandler(service.NewEventService(eventRepo)),
		Reprocess: handler.NewReprocessHandler(pipeline, reconcile),
	}

	router := api.SetupRouter(cfg, handlers)

	log.Printf("Server starting on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
