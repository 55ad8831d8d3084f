// Package reconcile diffs freshly derived events against the persisted
// timeline, producing insert/update/delete/extend operations that honor
// a strict priority order and never touch protected events.
package reconcile

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

// Events starting within this distance of a prior event's end are
// absorbed by extending that event instead of inserting a duplicate.
const extendWindow = 60 * time.Second

// Input is one reconciliation run's view of the world.
type Input struct {
	UserID string

	// Existing holds the events persisted for the current window.
	Existing []models.TimelineEvent

	// Previous holds the previous adjacent window's events, which are
	// candidates for extension.
	Previous []models.TimelineEvent

	// Derived holds the events computed by this run.
	Derived []models.DerivedEvent

	// WindowEnd is the exclusive end of the current window. An existing
	// event already extended past it is owned by the next window's run
	// and is never shrunk back here. Zero disables the guard.
	WindowEnd time.Time
}

// placement is a derived event pinned to the interval it may occupy,
// under the source id it will be matched and persisted by.
type placement struct {
	sourceID string
	ev       models.DerivedEvent
	iv       interval
}

// Run reconciles the derived events against the persisted timeline.
// The returned operations are not applied; that is the caller's job.
// Re-running over the applied state produces no further operations.
func Run(in Input) models.ReconciliationOps {
	var ops models.ReconciliationOps

	bySourceID := make(map[string]*models.TimelineEvent, len(in.Existing))
	for i := range in.Existing {
		if in.Existing[i].SourceID != "" {
			bySourceID[in.Existing[i].SourceID] = &in.Existing[i]
		}
	}

	// Protected events occupy their spans at the top tier from the start;
	// screen-time spans accumulate as events are placed.
	var protectedSpans []interval
	for _, e := range in.Existing {
		if e.Protected() {
			protectedSpans = append(protectedSpans, interval{Start: e.Start, End: e.End})
		}
	}
	var screenSpans []interval

	matched := make(map[string]bool)
	protectedIDs := make(map[string]bool)

	derived := orderDerived(in.Derived)

	// Extension pass
	remaining := make([]models.DerivedEvent, 0, len(derived))
	usedPrev := make(map[string]bool)
	for _, ev := range derived {
		prev := findExtensionTarget(ev, in.Previous, usedPrev)
		if prev == nil {
			remaining = append(remaining, ev)
			continue
		}

		usedPrev[prev.ID] = true
		matched[ev.SourceID] = true
		// Once extended across the window boundary the target overlaps
		// the current window too, so it arrives in Existing under its
		// own source id. Cleanup must not treat it as stale.
		if prev.SourceID != "" {
			matched[prev.SourceID] = true
		}
		if ev.End.After(prev.End) {
			ops.Extensions = append(ops.Extensions, models.EventExtension{EventID: prev.ID, NewEnd: ev.End})
		}
		recordSpan(&protectedSpans, &screenSpans, ev.Meta.Source, interval{Start: ev.Start, End: ev.End})
	}

	// Placement pass: pin each surviving event to the intervals it may
	// occupy, trimming location blocks to the gaps left by
	// higher-priority occupants. Trimming before matching keeps re-runs
	// stable: persisted bounds are compared against trimmed bounds.
	var placements []placement
	for _, ev := range remaining {
		placements = append(placements, place(ev, protectedSpans, &screenSpans)...)
	}

	// Match pass
	for _, p := range placements {
		matched[p.sourceID] = true
		existing, ok := bySourceID[p.sourceID]
		if !ok {
			ops.Inserts = append(ops.Inserts, newEvent(in.UserID, p.sourceID, p.ev, p.iv))
			continue
		}
		if existing.Protected() {
			protectedIDs[existing.ID] = true
			continue
		}
		wantStart, wantEnd := p.iv.Start, p.iv.End
		// An end stretched past this window was applied by the next
		// window's extension pass; never pull it back from here.
		if !in.WindowEnd.IsZero() && existing.End.After(in.WindowEnd) && wantEnd.Before(existing.End) {
			wantEnd = existing.End
		}
		if !existing.Start.Equal(wantStart) || !existing.End.Equal(wantEnd) {
			ops.Updates = append(ops.Updates, models.EventUpdate{EventID: existing.ID, Start: wantStart, End: wantEnd})
		}
	}

	// Cleanup pass: derived events not produced by this run are stale
	for _, e := range in.Existing {
		if e.SourceID != "" && matched[e.SourceID] {
			continue
		}
		if !e.Meta.Source.Derived() {
			continue // user events are never auto-deleted
		}
		if e.LockedAt != nil {
			protectedIDs[e.ID] = true
			continue
		}
		ops.Deletes = append(ops.Deletes, e.ID)
	}

	for id := range protectedIDs {
		ops.ProtectedIDs = append(ops.ProtectedIDs, id)
	}
	sort.Strings(ops.ProtectedIDs)

	if !ops.Empty() {
		log.Printf("[Reconcile] user=%s inserts=%d updates=%d deletes=%d extensions=%d protected=%d",
			in.UserID, len(ops.Inserts), len(ops.Updates), len(ops.Deletes), len(ops.Extensions), len(ops.ProtectedIDs))
	}

	return ops
}

// place pins a derived event to the intervals it may occupy.
// Screen-time and commute events keep their full span when clear of
// protected spans; ordinary location blocks are trimmed to the gaps left
// by higher-priority occupants, splitting under suffixed source ids when
// an occupant punches a hole through the middle. Commutes are
// containers: concurrent screen time coexists inside them, so they never
// occupy spans and are never trimmed.
func place(ev models.DerivedEvent, protectedSpans []interval, screenSpans *[]interval) []placement {
	candidate := interval{Start: ev.Start, End: ev.End}

	switch ev.Meta.Kind {
	case models.KindScreenTime:
		if overlapsAny(candidate, protectedSpans) {
			return nil
		}
		*screenSpans = append(*screenSpans, candidate)
		return []placement{{sourceID: ev.SourceID, ev: ev, iv: candidate}}

	case models.KindCommute, models.KindSessionBlock:
		if overlapsAny(candidate, protectedSpans) {
			return nil
		}
		return []placement{{sourceID: ev.SourceID, ev: ev, iv: candidate}}

	case models.KindLocationBlock:
		occupied := append(append([]interval{}, protectedSpans...), *screenSpans...)
		free := subtract(candidate, occupied)
		if len(free) == 0 {
			return nil
		}
		if len(free) == 1 {
			return []placement{{sourceID: ev.SourceID, ev: ev, iv: free[0]}}
		}

		placements := make([]placement, 0, len(free))
		for i, iv := range free {
			placements = append(placements, placement{
				sourceID: fmt.Sprintf("%s-%d", ev.SourceID, i+1),
				ev:       ev,
				iv:       iv,
			})
		}
		return placements
	}

	return nil
}

func newEvent(userID, sourceID string, ev models.DerivedEvent, iv interval) models.TimelineEvent {
	return models.TimelineEvent{
		ID:       uuid.NewString(),
		UserID:   userID,
		SourceID: sourceID,
		Title:    ev.Title,
		Start:    iv.Start,
		End:      iv.End,
		Meta:     ev.Meta,
	}
}

// recordSpan registers a placed interval at the tier of its source.
// Only protected and screen-time tiers affect later trimming.
func recordSpan(protectedSpans, screenSpans *[]interval, source models.EventSource, iv interval) {
	switch source.Priority() {
	case 3:
		*protectedSpans = append(*protectedSpans, iv)
	case 2:
		*screenSpans = append(*screenSpans, iv)
	}
}

// findExtensionTarget looks for a compatible unlocked previous-window
// event that either overlaps the derived event or ends within the
// extension window of its start. The overlap case lets a re-run
// recognize an already applied extension instead of inserting again.
func findExtensionTarget(ev models.DerivedEvent, previous []models.TimelineEvent, used map[string]bool) *models.TimelineEvent {
	for i := range previous {
		prev := &previous[i]
		if used[prev.ID] || prev.Protected() {
			continue
		}

		if ev.Start.Sub(prev.End) > extendWindow || !ev.End.After(prev.Start) {
			continue
		}

		if compatible(ev.Meta, prev.Meta) {
			return prev
		}
	}
	return nil
}

// compatible reports whether two metadata values describe the same
// continued activity: the same app for screen time, the same place
// (including unknown == unknown) for location blocks.
func compatible(derived, prev models.EventMeta) bool {
	if derived.Kind != prev.Kind {
		return false
	}

	switch derived.Kind {
	case models.KindScreenTime:
		a, b := derived.AppID(), prev.AppID()
		return a != nil && b != nil && *a == *b

	case models.KindLocationBlock:
		a, aOK := derived.PlaceID()
		b, bOK := prev.PlaceID()
		if !aOK || !bOK {
			return false
		}
		if a == nil && b == nil {
			return true
		}
		return a != nil && b != nil && *a == *b
	}

	return false
}

// orderDerived sorts derived events so higher-priority sources are
// placed first, giving screen time the chance to occupy spans before
// location blocks are trimmed against them.
func orderDerived(derived []models.DerivedEvent) []models.DerivedEvent {
	sorted := make([]models.DerivedEvent, len(derived))
	copy(sorted, derived)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Meta.Source.Priority(), sorted[j].Meta.Source.Priority()
		if pi != pj {
			return pi > pj
		}
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].SourceID < sorted[j].SourceID
	})
	return sorted
}
