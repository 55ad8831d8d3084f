package models

import "time"

// ActivitySegment is one contiguous block of a user's hour with a single
// inferred activity and optional place. Segments are re-derivable: an
// hour's segments are deleted and regenerated as a unit.
type ActivitySegment struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	Start      time.Time `json:"start" db:"start_time"`
	End        time.Time `json:"end" db:"end_time"` // invariant: Start < End
	HourBucket time.Time `json:"hourBucket" db:"hour_bucket"`

	// Place attachment (optional)
	PlaceID       *string        `json:"placeId,omitempty" db:"place_id"`
	PlaceLabel    *string        `json:"placeLabel,omitempty" db:"place_label"`
	PlaceCategory *PlaceCategory `json:"placeCategory,omitempty" db:"place_category"`
	CentroidLat   *float64       `json:"centroidLat,omitempty" db:"centroid_lat"`
	CentroidLng   *float64       `json:"centroidLng,omitempty" db:"centroid_lng"`

	// Inference result
	InferredActivity ActivityType `json:"inferredActivity" db:"inferred_activity"`
	Confidence       float64      `json:"confidence" db:"confidence"` // 0~1

	// Screen-time enrichment
	TopApps            []AppUsage `json:"topApps,omitempty" db:"top_apps"` // <=5, sorted by seconds desc
	TotalScreenSeconds int        `json:"totalScreenSeconds" db:"total_screen_seconds"`

	// Evidence counts backing the segment
	Evidence  EvidenceCounts `json:"evidence" db:"evidence"`
	SourceIDs []string       `json:"sourceIds,omitempty" db:"source_ids"`

	// Commute characteristics (only set for commute segments)
	MovementType   *MovementType `json:"movementType,omitempty" db:"movement_type"`
	DistanceMeters *float64      `json:"distanceMeters,omitempty" db:"distance_meters"`
}

// Duration returns the segment duration.
func (s ActivitySegment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// IsCommute reports whether the segment is a movement segment.
func (s ActivitySegment) IsCommute() bool {
	return s.InferredActivity == ActivityCommute
}

// AppUsage is the per-app screen time overlapping a segment.
type AppUsage struct {
	AppID       string      `json:"appId"`
	DisplayName string      `json:"displayName"`
	Seconds     int         `json:"seconds"`
	Category    AppCategory `json:"category"`
}

// EvidenceCounts records how much raw evidence backed a segment.
type EvidenceCounts struct {
	LocationSamples int  `json:"locationSamples"`
	ScreenSessions  int  `json:"screenSessions"`
	HasHealthData   bool `json:"hasHealthData"`
}
