// Package summary combines an hour's activity segments into a single
// confidence-scored hourly summary.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/stats"
)

// Placeholder text for hours with no evidence
const (
	noDataTitle       = "No Activity Data"
	noDataDescription = "No location or screen activity was recorded for this hour."
)

// Build combines the segments whose start falls inside the hour into one
// HourlySummary. If the existing summary is locked it is returned
// unchanged: a user-confirmed hour is never regenerated.
func Build(userID string, hourStart time.Time, segs []models.ActivitySegment, existing *models.HourlySummary) models.HourlySummary {
	if existing.Locked() {
		return *existing
	}

	s := models.HourlySummary{
		ID:        uuid.NewString(),
		UserID:    userID,
		HourStart: hourStart,
		LocalDate: hourStart.Format("2006-01-02"),
	}
	if existing != nil {
		// Preserve identity and feedback across regeneration
		s.ID = existing.ID
		s.UserFeedback = existing.UserFeedback
	}

	if len(segs) == 0 {
		s.Title = noDataTitle
		s.Description = noDataDescription
		s.EvidenceStrength = models.EvidenceLow
		return s
	}

	place, placeSeconds := dominantPlace(segs)
	activity := dominantActivity(segs)

	s.PrimaryPlace = place
	if activity != "" {
		s.PrimaryActivity = &activity
	}
	s.AppBreakdown = appBreakdown(segs)
	s.TotalScreenMinutes = totalScreenMinutes(segs)
	s.Confidence = weightedConfidence(segs)
	s.EvidenceStrength = evidenceStrength(segs)
	s.Title = buildTitle(segs, place, activity)
	s.Description = buildDescription(segs, place, placeSeconds, s.AppBreakdown)

	return s
}

// dominantPlace returns the place label with the most total seconds
// across the hour's segments, with the seconds spent there.
func dominantPlace(segs []models.ActivitySegment) (*string, float64) {
	seconds := make(map[string]float64)
	for _, seg := range segs {
		if seg.PlaceLabel == nil {
			continue
		}
		seconds[*seg.PlaceLabel] += seg.Duration().Seconds()
	}

	var best string
	var bestSeconds float64
	for label, s := range seconds {
		if s > bestSeconds || (s == bestSeconds && label < best) {
			best = label
			bestSeconds = s
		}
	}

	if best == "" {
		return nil, 0
	}
	return &best, bestSeconds
}

// dominantActivity returns the activity with the most total seconds.
func dominantActivity(segs []models.ActivitySegment) models.ActivityType {
	seconds := make(map[models.ActivityType]float64)
	for _, seg := range segs {
		seconds[seg.InferredActivity] += seg.Duration().Seconds()
	}

	var best models.ActivityType
	var bestSeconds float64
	for activity, s := range seconds {
		if s > bestSeconds || (s == bestSeconds && activity < best) {
			best = activity
			bestSeconds = s
		}
	}

	return best
}

// appBreakdown combines per-app seconds across segments, converts to
// minutes and sorts descending.
func appBreakdown(segs []models.ActivitySegment) []models.AppMinutes {
	type appTotal struct {
		displayName string
		seconds     int
	}
	totals := make(map[string]*appTotal)

	for _, seg := range segs {
		for _, app := range seg.TopApps {
			if t, ok := totals[app.AppID]; ok {
				t.seconds += app.Seconds
			} else {
				totals[app.AppID] = &appTotal{displayName: app.DisplayName, seconds: app.Seconds}
			}
		}
	}

	breakdown := make([]models.AppMinutes, 0, len(totals))
	for appID, t := range totals {
		breakdown = append(breakdown, models.AppMinutes{
			AppID:       appID,
			DisplayName: t.displayName,
			Minutes:     t.seconds / 60,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Minutes != breakdown[j].Minutes {
			return breakdown[i].Minutes > breakdown[j].Minutes
		}
		return breakdown[i].AppID < breakdown[j].AppID
	})

	return breakdown
}

func totalScreenMinutes(segs []models.ActivitySegment) int {
	seconds := 0
	for _, seg := range segs {
		seconds += seg.TotalScreenSeconds
	}
	return seconds / 60
}

// weightedConfidence is the duration-weighted mean of segment confidences.
func weightedConfidence(segs []models.ActivitySegment) float64 {
	values := make([]float64, len(segs))
	weights := make([]float64, len(segs))
	for i, seg := range segs {
		values[i] = seg.Confidence
		weights[i] = seg.Duration().Seconds()
	}
	return stats.WeightedMean(values, weights)
}

// evidenceStrength tiers the hour's signal density: high needs >=10
// location samples and >=5 screen sessions; medium needs either >=5
// samples or >=3 sessions.
func evidenceStrength(segs []models.ActivitySegment) models.EvidenceStrength {
	samples, sessions := 0, 0
	for _, seg := range segs {
		samples += seg.Evidence.LocationSamples
		sessions += seg.Evidence.ScreenSessions
	}

	if samples >= 10 && sessions >= 5 {
		return models.EvidenceHigh
	}
	if samples >= 5 || sessions >= 3 {
		return models.EvidenceMedium
	}
	return models.EvidenceLow
}

// buildTitle renders "{place} - {Activity}" with a commute special case.
func buildTitle(segs []models.ActivitySegment, place *string, activity models.ActivityType) string {
	if activity == models.ActivityCommute {
		if dest := commuteDestination(segs); dest != "" {
			return "Commute to " + dest
		}
		return "Commute"
	}

	label := activity.Label()
	if place != nil {
		return fmt.Sprintf("%s - %s", *place, label)
	}
	return label
}

// commuteDestination finds the place label of the first dwell after the
// hour's last commute segment.
func commuteDestination(segs []models.ActivitySegment) string {
	lastCommute := -1
	for i, seg := range segs {
		if seg.IsCommute() {
			lastCommute = i
		}
	}
	for i := lastCommute + 1; i < len(segs); i++ {
		if !segs[i].IsCommute() && segs[i].PlaceLabel != nil {
			return *segs[i].PlaceLabel
		}
	}
	return ""
}

// buildDescription renders "{N} min at {place}. {top apps}".
func buildDescription(segs []models.ActivitySegment, place *string, placeSeconds float64, breakdown []models.AppMinutes) string {
	var parts []string

	if place != nil {
		parts = append(parts, fmt.Sprintf("%d min at %s.", int(placeSeconds/60), *place))
	} else {
		var total float64
		for _, seg := range segs {
			total += seg.Duration().Seconds()
		}
		parts = append(parts, fmt.Sprintf("%d min tracked.", int(total/60)))
	}

	if len(breakdown) > 0 {
		names := make([]string, 0, 3)
		for _, app := range breakdown {
			names = append(names, app.DisplayName)
			if len(names) == 3 {
				break
			}
		}
		parts = append(parts, strings.Join(names, ", "))
	}

	return strings.Join(parts, " ")
}
