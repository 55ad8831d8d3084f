package segments

import (
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

// Generator turns one hour of raw evidence into activity segments.
// Generation is pure and deterministic: the same evidence always yields
// the same segments (ignoring generated ids).
type Generator struct {
	cfg     Config
	catalog *models.AppCatalog
}

// NewGenerator creates a new segment generator.
func NewGenerator(cfg Config, catalog *models.AppCatalog) *Generator {
	if catalog == nil {
		catalog = models.DefaultAppCatalog()
	}
	return &Generator{cfg: cfg, catalog: catalog}
}

// Generate produces the activity segments for the hour window
// [hourStart, hourStart+1h). Empty evidence sources are normal; total
// absence of evidence yields zero segments, never an error.
func (g *Generator) Generate(userID string, hourStart time.Time, ev models.Evidence) []models.ActivitySegment {
	hourEnd := hourStart.Add(time.Hour)

	raw := g.clusterSamples(ev.Samples)
	g.matchPlaces(raw, ev.Places)
	raw = g.mergeAdjacent(raw)
	raw = g.filterShort(raw)

	// No usable location evidence: synthesize one segment spanning the
	// actual screen-session bounds (clamped to the hour) so screen-only
	// hours do not report phantom idle time.
	if len(raw) == 0 && len(ev.Sessions) > 0 {
		if synth, ok := synthesizeFromSessions(ev.Sessions, hourStart, hourEnd); ok {
			raw = append(raw, synth)
		}
	}

	if len(raw) == 0 {
		log.Printf("[SegmentGenerator] No segments for user=%s hour=%s", userID, hourStart.Format(time.RFC3339))
		return nil
	}

	segs := make([]models.ActivitySegment, 0, len(raw))
	for _, r := range raw {
		if !r.end.After(r.start) {
			continue
		}
		segs = append(segs, g.buildSegment(userID, hourStart, r, ev))
	}

	sort.Slice(segs, func(i, j int) bool { return segs[i].Start.Before(segs[j].Start) })
	return segs
}

// synthesizeFromSessions builds a single dwell-like segment spanning the
// screen sessions' actual bounds, clamped to the hour.
func synthesizeFromSessions(sessions []models.ScreenSession, hourStart, hourEnd time.Time) (rawSegment, bool) {
	first := sessions[0].Start
	last := sessions[0].End
	for _, s := range sessions[1:] {
		if s.Start.Before(first) {
			first = s.Start
		}
		if s.End.After(last) {
			last = s.End
		}
	}

	if first.Before(hourStart) {
		first = hourStart
	}
	if last.After(hourEnd) {
		last = hourEnd
	}
	if !last.After(first) {
		return rawSegment{}, false
	}

	return rawSegment{start: first, end: last}, true
}

// buildSegment enriches a raw segment with screen time, infers its
// activity, and scores its confidence.
func (g *Generator) buildSegment(userID string, hourStart time.Time, r rawSegment, ev models.Evidence) models.ActivitySegment {
	apps, totalScreenSeconds, sessionCount := g.overlapScreenTime(r, ev.Sessions)
	hasHealth := overlapsAnyWorkout(r, ev.Workouts)

	topApps := apps
	if len(topApps) > 5 {
		topApps = topApps[:5]
	}

	seg := models.ActivitySegment{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Start:              r.start,
		End:                r.end,
		HourBucket:         hourStart,
		TopApps:            topApps,
		TotalScreenSeconds: totalScreenSeconds,
		Evidence: models.EvidenceCounts{
			LocationSamples: r.sampleCount,
			ScreenSessions:  sessionCount,
			HasHealthData:   hasHealth,
		},
	}

	if r.sampleCount > 0 {
		lat, lng := r.centroid.Lat, r.centroid.Lon
		seg.CentroidLat = &lat
		seg.CentroidLng = &lng
	}

	if r.place != nil {
		placeID := r.place.ID
		label := r.place.Label
		category := r.place.Category
		seg.PlaceID = &placeID
		seg.PlaceLabel = &label
		seg.PlaceCategory = &category
		seg.SourceIDs = append(seg.SourceIDs, "place:"+placeID)
	}

	if r.commute {
		movement := r.movement
		distance := r.distance
		seg.MovementType = &movement
		seg.DistanceMeters = &distance
	}

	for _, app := range apps {
		seg.SourceIDs = append(seg.SourceIDs, "screen:"+app.AppID)
	}

	seg.InferredActivity = g.inferActivity(r, apps, totalScreenSeconds, ev.Workouts)
	seg.Confidence = scoreConfidence(r.sampleCount, r.placeMatchRatio(), sessionCount, consensusShare(apps, totalScreenSeconds))

	return seg
}

// overlapScreenTime computes the per-app screen time overlapping the
// segment, sorted by duration descending. Apps categorized "ignore" are
// dropped.
func (g *Generator) overlapScreenTime(r rawSegment, sessions []models.ScreenSession) ([]models.AppUsage, int, int) {
	byApp := make(map[string]*models.AppUsage)
	total := 0
	sessionCount := 0

	for _, s := range sessions {
		overlap := overlapSeconds(r.start, r.end, s.Start, s.End)
		if overlap <= 0 {
			continue
		}

		category := g.catalog.Category(s.AppID)
		if category == models.AppCategoryIgnore {
			continue
		}

		sessionCount++
		total += overlap

		if usage, ok := byApp[s.AppID]; ok {
			usage.Seconds += overlap
		} else {
			byApp[s.AppID] = &models.AppUsage{
				AppID:       s.AppID,
				DisplayName: s.DisplayName,
				Seconds:     overlap,
				Category:    category,
			}
		}
	}

	apps := make([]models.AppUsage, 0, len(byApp))
	for _, usage := range byApp {
		apps = append(apps, *usage)
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Seconds != apps[j].Seconds {
			return apps[i].Seconds > apps[j].Seconds
		}
		return apps[i].AppID < apps[j].AppID
	})

	return apps, total, sessionCount
}

// overlapSeconds returns the overlap between [aStart,aEnd) and
// [bStart,bEnd) in whole seconds, clipped to >= 0.
func overlapSeconds(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Seconds())
}

func overlapsAnyWorkout(r rawSegment, workouts []models.HealthWorkout) bool {
	for _, w := range workouts {
		if overlapSeconds(r.start, r.end, w.Start, w.End) > 0 {
			return true
		}
	}
	return false
}

// inferActivity applies the strict priority chain: health evidence wins
// over place category, which wins over screen-usage patterns.
func (g *Generator) inferActivity(r rawSegment, apps []models.AppUsage, totalScreenSeconds int, workouts []models.HealthWorkout) models.ActivityType {
	var hasWorkout, hasSleep bool
	for _, w := range workouts {
		if overlapSeconds(r.start, r.end, w.Start, w.End) <= 0 {
			continue
		}
		if w.IsSleep() {
			hasSleep = true
		} else {
			hasWorkout = true
		}
	}
	if hasWorkout {
		return models.ActivityWorkout
	}
	if hasSleep {
		return models.ActivitySleep
	}

	if r.commute || (r.place != nil && r.place.Category == models.PlaceCategoryCommute) {
		return models.ActivityCommute
	}

	screenMinutes := float64(totalScreenSeconds) / 60.0
	dominant, dominantSeconds := dominantCategory(apps)
	commsSeconds := categorySeconds(apps, models.AppCategoryComms)

	switch {
	case dominant == models.AppCategoryWork && screenMinutes > 30:
		if totalScreenSeconds > 0 && float64(commsSeconds)/float64(totalScreenSeconds) > 0.4 {
			return models.ActivityCollaborativeWork
		}
		return models.ActivityDeepWork

	case dominant == models.AppCategoryComms && screenMinutes > 20:
		return models.ActivityMeeting

	case dominant == models.AppCategoryEntertainment && dominantSeconds > 0:
		if isTypicalWorkHours(r.start, g.cfg.WorkHourStart, g.cfg.WorkHourEnd) {
			return models.ActivityDistractedTime
		}
		return models.ActivityLeisure

	case dominant == models.AppCategorySocial && dominantSeconds > 0:
		if screenMinutes > 30 {
			return models.ActivityExtendedSocial
		}
		return models.ActivitySocialBreak
	}

	if screenMinutes < 5 {
		if r.place != nil {
			switch r.place.Category {
			case models.PlaceCategoryHome:
				return models.ActivityPersonalTime
			case models.PlaceCategoryWork:
				return models.ActivityAwayFromDesk
			}
		}
		return models.ActivityOfflineActivity
	}

	return models.ActivityMixed
}

// isTypicalWorkHours reports whether t falls on a weekday within the
// configured work hours.
func isTypicalWorkHours(t time.Time, startHour, endHour int) bool {
	weekday := t.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return false
	}
	return t.Hour() >= startHour && t.Hour() < endHour
}

// dominantCategory returns the app category with the most screen seconds.
// Ties break by a fixed category order for determinism.
func dominantCategory(apps []models.AppUsage) (models.AppCategory, int) {
	order := []models.AppCategory{
		models.AppCategoryWork,
		models.AppCategoryComms,
		models.AppCategoryEntertainment,
		models.AppCategorySocial,
		models.AppCategoryOther,
	}

	totals := make(map[models.AppCategory]int)
	for _, app := range apps {
		totals[app.Category] += app.Seconds
	}

	var best models.AppCategory
	bestSeconds := 0
	for _, category := range order {
		if totals[category] > bestSeconds {
			best = category
			bestSeconds = totals[category]
		}
	}

	return best, bestSeconds
}

func categorySeconds(apps []models.AppUsage, category models.AppCategory) int {
	total := 0
	for _, app := range apps {
		if app.Category == category {
			total += app.Seconds
		}
	}
	return total
}

// consensusShare is the dominant category's share of total screen time.
func consensusShare(apps []models.AppUsage, totalScreenSeconds int) float64 {
	if totalScreenSeconds == 0 {
		return 0
	}
	_, dominantSeconds := dominantCategory(apps)
	return float64(dominantSeconds) / float64(totalScreenSeconds)
}
