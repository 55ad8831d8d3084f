package models

import "time"

// EvidenceStrength is the qualitative confidence tier of a summary.
type EvidenceStrength string

// EvidenceStrength constants
const (
	EvidenceLow    EvidenceStrength = "low"
	EvidenceMedium EvidenceStrength = "medium"
	EvidenceHigh   EvidenceStrength = "high"
)

// HourlySummary is the single derived summary for one hour of a user's
// day. Once LockedAt is set (the user confirmed or edited the hour) the
// summary is immutable to automatic regeneration.
type HourlySummary struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	HourStart time.Time `json:"hourStart" db:"hour_start"`
	LocalDate string    `json:"localDate" db:"local_date"` // YYYY-MM-DD

	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	PrimaryPlace    *string       `json:"primaryPlace,omitempty" db:"primary_place"`
	PrimaryActivity *ActivityType `json:"primaryActivity,omitempty" db:"primary_activity"`

	AppBreakdown       []AppMinutes     `json:"appBreakdown,omitempty" db:"app_breakdown"`
	TotalScreenMinutes int              `json:"totalScreenMinutes" db:"total_screen_minutes"`
	Confidence         float64          `json:"confidence" db:"confidence"`
	EvidenceStrength   EvidenceStrength `json:"evidenceStrength" db:"evidence_strength"`

	UserFeedback *string    `json:"userFeedback,omitempty" db:"user_feedback"`
	LockedAt     *time.Time `json:"lockedAt,omitempty" db:"locked_at"`
}

// Locked reports whether the summary is protected from regeneration.
func (s *HourlySummary) Locked() bool {
	return s != nil && s.LockedAt != nil
}

// AppMinutes is one entry of an hour's per-app screen time breakdown.
type AppMinutes struct {
	AppID       string `json:"appId"`
	DisplayName string `json:"displayName"`
	Minutes     int    `json:"minutes"`
}
