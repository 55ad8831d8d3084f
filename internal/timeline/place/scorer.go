// Package place verifies place labels attached to segment centroids
// against a distance/dwell/sample-count/venue-type model.
package place

import (
	"fmt"
	"strings"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/spatial"
)

// Distance thresholds (meters)
const (
	exactDistanceMeters     = 25.0
	closeDistanceMeters     = 50.0
	confidentDistanceMeters = 75.0
	nearbyDistanceMeters    = 100.0
	areaDistanceMeters      = 150.0
)

// ConfidenceLevel classifies a place match score.
type ConfidenceLevel string

// ConfidenceLevel constants
const (
	LevelHigh    ConfidenceLevel = "high"     // >= 0.7, show as-is
	LevelMedium  ConfidenceLevel = "medium"   // >= 0.5, show as-is
	LevelLow     ConfidenceLevel = "low"      // >= 0.3, show with "Near " prefix
	LevelVeryLow ConfidenceLevel = "very_low" // < 0.3, fuzzy; rejected below 0.15
)

// Candidate is a place name candidate for a segment centroid, either a
// user place or a reverse-geocode result.
type Candidate struct {
	Name               string
	Latitude           float64
	Longitude          float64
	VenueTypes         []string
	FromReverseGeocode bool
}

// Assessment is the scorer's verdict on a candidate.
type Assessment struct {
	Score          float64         `json:"score"`
	Level          ConfidenceLevel `json:"level"`
	ShouldShow     bool            `json:"shouldShow"`
	UseFuzzyFormat bool            `json:"useFuzzyFormat"`
	Reasoning      string          `json:"reasoning"`
}

// largeVenueTypes are venues whose footprint routinely exceeds the
// confident distance, earning a bonus at longer range.
var largeVenueTypes = map[string]bool{
	"airport":         true,
	"stadium":         true,
	"university":      true,
	"shopping_mall":   true,
	"amusement_park":  true,
	"park":            true,
	"transit_station": true,
	"hospital":        true,
}

// smallVenueTypes are venues small enough that a match beyond 50m is
// suspect.
var smallVenueTypes = map[string]bool{
	"cafe":              true,
	"restaurant":        true,
	"bar":               true,
	"bakery":            true,
	"convenience_store": true,
	"store":             true,
}

// Score rates how confidently the candidate names the segment's
// location, multiplying a chain of evidence factors and clamping to
// [0,1].
func Score(centroidLat, centroidLng float64, cand Candidate, dwell time.Duration, sampleCount int) Assessment {
	distance := spatial.HaversineDistance(centroidLat, centroidLng, cand.Latitude, cand.Longitude)

	distanceFactor := distanceFactor(distance)
	dwellFactor := dwellFactor(dwell)
	sampleFactor := sampleFactor(sampleCount)

	score := 1.0 * distanceFactor * dwellFactor * sampleFactor

	geocodeFactor := 1.0
	if cand.FromReverseGeocode {
		geocodeFactor = 0.9
		score *= geocodeFactor
	}

	venueFactor := venueFactor(cand.VenueTypes, distance)
	score *= venueFactor

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	level := classify(score)

	return Assessment{
		Score:          score,
		Level:          level,
		ShouldShow:     score >= 0.15,
		UseFuzzyFormat: level == LevelLow || level == LevelVeryLow,
		Reasoning: fmt.Sprintf(
			"distance=%.0fm(x%.2f) dwell=%dm(x%.2f) samples=%d(x%.2f) geocode=x%.2f venue=x%.2f",
			distance, distanceFactor, int(dwell.Minutes()), dwellFactor,
			sampleCount, sampleFactor, geocodeFactor, venueFactor),
	}
}

func distanceFactor(meters float64) float64 {
	switch {
	case meters <= exactDistanceMeters:
		return 1.0
	case meters <= closeDistanceMeters:
		return 0.9
	case meters <= confidentDistanceMeters:
		return 0.75
	case meters <= nearbyDistanceMeters:
		return 0.55
	case meters <= areaDistanceMeters:
		return 0.35
	default:
		return 0.1
	}
}

func dwellFactor(dwell time.Duration) float64 {
	switch {
	case dwell >= 30*time.Minute:
		return 1.1
	case dwell >= 15*time.Minute:
		return 1.0
	case dwell >= 5*time.Minute:
		return 0.95
	case dwell >= 3*time.Minute:
		return 0.85
	default:
		return 0.7
	}
}

func sampleFactor(count int) float64 {
	switch {
	case count >= 10:
		return 1.05
	case count >= 5:
		return 1.0
	case count >= 3:
		return 0.95
	default:
		return 0.85
	}
}

func venueFactor(types []string, distance float64) float64 {
	for _, t := range types {
		if largeVenueTypes[t] && distance > confidentDistanceMeters {
			return 1.15
		}
	}
	for _, t := range types {
		if smallVenueTypes[t] && distance > closeDistanceMeters {
			return 0.85
		}
	}
	return 1.0
}

func classify(score float64) ConfidenceLevel {
	switch {
	case score >= 0.7:
		return LevelHigh
	case score >= 0.5:
		return LevelMedium
	case score >= 0.3:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// DisplayName formats the candidate name for presentation: fuzzy
// matches get a "Near " prefix unless the name already carries one.
func DisplayName(name string, a Assessment) string {
	if !a.ShouldShow {
		return ""
	}
	if !a.UseFuzzyFormat {
		return name
	}
	if strings.HasPrefix(name, "Near ") {
		return name
	}
	return "Near " + name
}
