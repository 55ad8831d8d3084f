package models

import "time"

// LocationSample represents a single raw location ping from a device.
// Samples are immutable and always processed in timestamp order.
type LocationSample struct {
	ID        int64     `json:"id,omitempty" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`

	// Optional device telemetry
	Provider string `json:"provider,omitempty" db:"provider"` // gps, network, fused
	Activity string `json:"activity,omitempty" db:"activity"` // still, walking, in_vehicle, ...
	Battery  int    `json:"battery,omitempty" db:"battery"`   // 0-100, 0 when unknown
	Mocked   bool   `json:"mocked,omitempty" db:"mocked"`
}

// ScreenSession represents one continuous foreground usage of an app.
// A session may overlap a processing window partially; only the
// overlapping duration counts toward that window.
type ScreenSession struct {
	ID          int64     `json:"id,omitempty" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	AppID       string    `json:"appId" db:"app_id"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Start       time.Time `json:"start" db:"start_time"`
	End         time.Time `json:"end" db:"end_time"`
}

// Duration returns the total session duration.
func (s ScreenSession) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// HealthWorkout represents a workout (or sleep period) recorded by a
// health platform. A workout overlapping a segment overrides all other
// activity inference for that segment.
type HealthWorkout struct {
	ID           int64     `json:"id,omitempty" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	ActivityType string    `json:"activityType" db:"activity_type"` // running, cycling, sleep, ...
	Start        time.Time `json:"start" db:"start_time"`
	End          time.Time `json:"end" db:"end_time"`
}

// IsSleep reports whether the workout record is a sleep signal rather
// than an exercise.
func (w HealthWorkout) IsSleep() bool {
	return w.ActivityType == "sleep" || w.ActivityType == "in_bed"
}

// UserPlace represents a place the user has labeled (home, office, gym).
// Location clusters are matched against the centroid and radius.
type UserPlace struct {
	ID           string        `json:"id" db:"id"`
	UserID       string        `json:"userId" db:"user_id"`
	Label        string        `json:"label" db:"label"`
	Category     PlaceCategory `json:"category" db:"category"`
	Latitude     float64       `json:"latitude" db:"latitude"`
	Longitude    float64       `json:"longitude" db:"longitude"`
	RadiusMeters float64       `json:"radiusMeters" db:"radius_meters"`
}

// PlaceCategory classifies a user place.
type PlaceCategory string

// PlaceCategory constants
const (
	PlaceCategoryHome    PlaceCategory = "home"
	PlaceCategoryWork    PlaceCategory = "work"
	PlaceCategoryCommute PlaceCategory = "commute"
	PlaceCategoryGym     PlaceCategory = "gym"
	PlaceCategoryOther   PlaceCategory = "other"
)

// Evidence bundles all raw signals fetched for one processing window.
// Any source may be empty; an empty source is normal, not an error.
type Evidence struct {
	Samples  []LocationSample
	Sessions []ScreenSession
	Workouts []HealthWorkout
	Places   []UserPlace
}
