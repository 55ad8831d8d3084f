package models

import "time"

// HourResult reports the outcome of reprocessing a single hour.
type HourResult struct {
	HourStart        time.Time `json:"hourStart"`
	SegmentsCreated  int       `json:"segmentsCreated"`
	PlacesLookedUp   int       `json:"placesLookedUp"`
	SummaryGenerated bool      `json:"summaryGenerated"`
	SummaryLocked    bool      `json:"summaryLocked"` // existing lock honored, nothing regenerated
}

// DayProgress tracks partial progress of a day-level reprocessing run so
// a caller can see how far execution got before a failure and retry the
// remainder. Hour writes are atomic, so any processed prefix stays valid.
type DayProgress struct {
	LocalDate          string `json:"localDate"`
	HoursProcessed     int    `json:"hoursProcessed"`
	SegmentsCreated    int    `json:"segmentsCreated"`
	PlacesLookedUp     int    `json:"placesLookedUp"`
	SummariesGenerated int    `json:"summariesGenerated"`
	FailedStep         string `json:"failedStep,omitempty"` // structured reason when a write failed
}
