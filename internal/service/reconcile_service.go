package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/repository"
	"github.com/lifelog-labs/timeline-backend-go/internal/timeline/reconcile"
)

// ReconcileService projects an hour's derived data onto the persisted
// timeline: segments and screen sessions become derived events, the
// reconciliation engine diffs them against what is stored, and the
// resulting operations are applied in one transaction
type ReconcileService struct {
	segments *repository.ActivitySegmentRepository
	evidence *repository.EvidenceRepository
	events   *repository.EventRepository
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(
	segments *repository.ActivitySegmentRepository,
	evidence *repository.EvidenceRepository,
	events *repository.EventRepository,
) *ReconcileService {
	return &ReconcileService{segments: segments, evidence: evidence, events: events}
}

// ReconcileHour derives events for one hour and applies the
// reconciliation operations. The returned operations describe what
// changed; an empty set means the timeline was already current.
func (s *ReconcileService) ReconcileHour(ctx context.Context, userID string, hourStart time.Time) (models.ReconciliationOps, error) {
	hourStart = hourStart.Truncate(time.Hour)
	hourEnd := hourStart.Add(time.Hour)

	if err := ctx.Err(); err != nil {
		return models.ReconciliationOps{}, err
	}

	segs, err := s.segments.GetByHour(userID, hourStart)
	if err != nil {
		return models.ReconciliationOps{}, fmt.Errorf("failed to load segments: %w", err)
	}

	sessions, err := s.evidence.GetScreenSessions(userID, hourStart, hourEnd)
	if err != nil {
		return models.ReconciliationOps{}, fmt.Errorf("failed to load screen sessions: %w", err)
	}

	existing, err := s.events.ListWindow(userID, hourStart, hourEnd)
	if err != nil {
		return models.ReconciliationOps{}, fmt.Errorf("failed to load existing events: %w", err)
	}

	previous, err := s.events.ListWindow(userID, hourStart.Add(-time.Hour), hourStart)
	if err != nil {
		return models.ReconciliationOps{}, fmt.Errorf("failed to load previous events: %w", err)
	}

	derived := deriveEvents(segs, sessions, hourStart, hourEnd)

	ops := reconcile.Run(reconcile.Input{
		UserID:    userID,
		Existing:  existing,
		Previous:  previous,
		Derived:   derived,
		WindowEnd: hourEnd,
	})

	if err := s.events.ApplyOps(ops); err != nil {
		return ops, fmt.Errorf("failed to apply reconciliation operations: %w", err)
	}

	return ops, nil
}

// deriveEvents projects segments and screen sessions into derived
// events with stable source ids, so re-derivation matches instead of
// duplicating
func deriveEvents(segs []models.ActivitySegment, sessions []models.ScreenSession, hourStart, hourEnd time.Time) []models.DerivedEvent {
	var derived []models.DerivedEvent

	for _, seg := range segs {
		if seg.IsCommute() {
			mode := models.MovementType("")
			if seg.MovementType != nil {
				mode = *seg.MovementType
			}
			distance := 0.0
			if seg.DistanceMeters != nil {
				distance = *seg.DistanceMeters
			}
			derived = append(derived, models.DerivedEvent{
				SourceID: fmt.Sprintf("commute:%d", seg.Start.Unix()),
				Title:    "Commute",
				Start:    seg.Start,
				End:      seg.End,
				Meta:     models.NewCommuteMeta(mode, distance, seg.PlaceID),
			})
			continue
		}

		label := ""
		if seg.PlaceLabel != nil {
			label = *seg.PlaceLabel
		}
		title := label
		if title == "" {
			title = "Location block"
		}
		derived = append(derived, models.DerivedEvent{
			SourceID: fmt.Sprintf("location:%d", seg.Start.Unix()),
			Title:    title,
			Start:    seg.Start,
			End:      seg.End,
			Meta:     models.NewLocationBlockMeta(seg.PlaceID, label),
		})
	}

	for _, session := range sessions {
		start, end := session.Start, session.End
		if start.Before(hourStart) {
			start = hourStart
		}
		if end.After(hourEnd) {
			end = hourEnd
		}
		if !end.After(start) {
			continue
		}

		title := session.DisplayName
		if title == "" {
			title = session.AppID
		}
		derived = append(derived, models.DerivedEvent{
			SourceID: fmt.Sprintf("screen:%s:%d", session.AppID, session.Start.Unix()),
			Title:    title,
			Start:    start,
			End:      end,
			Meta:     models.NewScreenTimeMeta(session.AppID, session.DisplayName),
		})
	}

	return derived
}
