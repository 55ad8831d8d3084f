package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/repository"
	"github.com/lifelog-labs/timeline-backend-go/internal/timeline/segments"
	"github.com/lifelog-labs/timeline-backend-go/internal/timeline/summary"
)

// PipelineService runs the derivation pipeline for one hour or one day:
// fetch evidence, generate segments, enrich place names, persist, and
// regenerate the hourly summary
type PipelineService struct {
	evidence   *repository.EvidenceRepository
	segments   *repository.ActivitySegmentRepository
	summaries  *repository.SummaryRepository
	generator  *segments.Generator
	placeNames *PlaceNameService // optional
}

// NewPipelineService creates a new pipeline service. placeNames may be
// nil when no lookup provider is configured.
func NewPipelineService(
	evidence *repository.EvidenceRepository,
	segmentRepo *repository.ActivitySegmentRepository,
	summaries *repository.SummaryRepository,
	generator *segments.Generator,
	placeNames *PlaceNameService,
) *PipelineService {
	return &PipelineService{
		evidence:   evidence,
		segments:   segmentRepo,
		summaries:  summaries,
		generator:  generator,
		placeNames: placeNames,
	}
}

// fetchEvidence loads all evidence sources for one hour concurrently.
// A failed source degrades to empty: missing evidence yields weaker
// segments, not a failed run.
func (s *PipelineService) fetchEvidence(userID string, hourStart time.Time) models.Evidence {
	hourEnd := hourStart.Add(time.Hour)

	var ev models.Evidence
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		samples, err := s.evidence.GetSamples(userID, hourStart, hourEnd)
		if err != nil {
			log.Printf("[Pipeline] location samples unavailable for %s: %v", hourStart.Format(time.RFC3339), err)
			return
		}
		ev.Samples = samples
	}()

	go func() {
		defer wg.Done()
		sessions, err := s.evidence.GetScreenSessions(userID, hourStart, hourEnd)
		if err != nil {
			log.Printf("[Pipeline] screen sessions unavailable for %s: %v", hourStart.Format(time.RFC3339), err)
			return
		}
		ev.Sessions = sessions
	}()

	go func() {
		defer wg.Done()
		workouts, err := s.evidence.GetWorkouts(userID, hourStart, hourEnd)
		if err != nil {
			log.Printf("[Pipeline] workouts unavailable for %s: %v", hourStart.Format(time.RFC3339), err)
			return
		}
		ev.Workouts = workouts
	}()

	go func() {
		defer wg.Done()
		places, err := s.evidence.GetUserPlaces(userID)
		if err != nil {
			log.Printf("[Pipeline] user places unavailable: %v", err)
			return
		}
		ev.Places = places
	}()

	wg.Wait()
	return ev
}

// ProcessHour reprocesses one hour end to end. The hour's segments are
// replaced atomically; the summary is regenerated unless locked.
func (s *PipelineService) ProcessHour(ctx context.Context, userID string, hourStart time.Time) (models.HourResult, error) {
	hourStart = hourStart.Truncate(time.Hour)
	result := models.HourResult{HourStart: hourStart}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	ev := s.fetchEvidence(userID, hourStart)
	segs := s.generator.Generate(userID, hourStart, ev)

	if s.placeNames != nil {
		result.PlacesLookedUp = s.placeNames.EnrichSegments(segs)
	}

	if err := s.segments.ReplaceHour(userID, hourStart, segs); err != nil {
		return result, fmt.Errorf("failed to persist segments: %w", err)
	}
	result.SegmentsCreated = len(segs)

	existing, err := s.summaries.GetByHour(userID, hourStart)
	if err != nil {
		return result, fmt.Errorf("failed to load existing summary: %w", err)
	}
	if existing.Locked() {
		result.SummaryLocked = true
		log.Printf("[Pipeline] summary locked for %s, segments refreshed only", hourStart.Format(time.RFC3339))
		return result, nil
	}

	sum := summary.Build(userID, hourStart, segs, existing)
	if sum.ID == "" {
		sum.ID = uuid.NewString()
	}
	if err := s.summaries.Upsert(sum); err != nil {
		return result, fmt.Errorf("failed to persist summary: %w", err)
	}
	result.SummaryGenerated = true

	return result, nil
}

// ProcessDay reprocesses all 24 hours of a local date in order. The
// returned progress is valid even on error: hour writes are atomic, so
// every processed hour stays consistent and the run can be retried.
func (s *PipelineService) ProcessDay(ctx context.Context, userID string, date time.Time) (models.DayProgress, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	progress := models.DayProgress{LocalDate: dayStart.Format("2006-01-02")}

	log.Printf("[Pipeline] reprocessing day %s for user %s", progress.LocalDate, userID)

	for hour := 0; hour < 24; hour++ {
		if err := ctx.Err(); err != nil {
			progress.FailedStep = fmt.Sprintf("cancelled before hour %d", hour)
			return progress, err
		}

		hourStart := dayStart.Add(time.Duration(hour) * time.Hour)
		result, err := s.ProcessHour(ctx, userID, hourStart)
		if err != nil {
			progress.FailedStep = fmt.Sprintf("hour %d: %v", hour, err)
			return progress, err
		}

		progress.HoursProcessed++
		progress.SegmentsCreated += result.SegmentsCreated
		progress.PlacesLookedUp += result.PlacesLookedUp
		if result.SummaryGenerated {
			progress.SummariesGenerated++
		}
	}

	log.Printf("[Pipeline] day %s done: %d segments, %d summaries",
		progress.LocalDate, progress.SegmentsCreated, progress.SummariesGenerated)
	return progress, nil
}
