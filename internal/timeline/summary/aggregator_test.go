package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

var hourStart = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func seg(startMin, endMin int, place string, activity models.ActivityType, confidence float64) models.ActivitySegment {
	s := models.ActivitySegment{
		ID:               "seg-" + place + "-" + string(activity),
		UserID:           "u1",
		Start:            hourStart.Add(time.Duration(startMin) * time.Minute),
		End:              hourStart.Add(time.Duration(endMin) * time.Minute),
		HourBucket:       hourStart,
		InferredActivity: activity,
		Confidence:       confidence,
		Evidence:         models.EvidenceCounts{LocationSamples: 6, ScreenSessions: 3},
	}
	if place != "" {
		s.PlaceLabel = strPtr(place)
		s.PlaceID = strPtr("place-" + place)
	}
	return s
}

func TestBuildReturnsLockedSummaryUnchanged(t *testing.T) {
	lockedAt := hourStart.Add(2 * time.Hour)
	existing := &models.HourlySummary{
		ID:        "locked-1",
		UserID:    "u1",
		HourStart: hourStart,
		Title:     "My edited hour",
		LockedAt:  &lockedAt,
	}

	got := Build("u1", hourStart, []models.ActivitySegment{
		seg(0, 60, "Office", models.ActivityDeepWork, 0.9),
	}, existing)

	assert.Equal(t, *existing, got, "locked summaries must never be regenerated")
}

func TestBuildEmptySegmentsProducesPlaceholder(t *testing.T) {
	got := Build("u1", hourStart, nil, nil)

	assert.Equal(t, "No Activity Data", got.Title)
	assert.Equal(t, models.EvidenceLow, got.EvidenceStrength)
	assert.Zero(t, got.Confidence)
	assert.Equal(t, "2026-03-04", got.LocalDate)
}

func TestBuildPreservesIdentityAcrossRegeneration(t *testing.T) {
	existing := &models.HourlySummary{
		ID:           "summary-1",
		UserID:       "u1",
		HourStart:    hourStart,
		UserFeedback: strPtr("accurate"),
	}

	got := Build("u1", hourStart, []models.ActivitySegment{
		seg(0, 60, "Office", models.ActivityDeepWork, 0.8),
	}, existing)

	assert.Equal(t, "summary-1", got.ID)
	require.NotNil(t, got.UserFeedback)
	assert.Equal(t, "accurate", *got.UserFeedback)
}

func TestBuildDominantPlaceAndActivityByDuration(t *testing.T) {
	segs := []models.ActivitySegment{
		seg(0, 40, "Office", models.ActivityDeepWork, 0.8),
		seg(40, 55, "Cafe", models.ActivitySocialBreak, 0.6),
	}

	got := Build("u1", hourStart, segs, nil)

	require.NotNil(t, got.PrimaryPlace)
	assert.Equal(t, "Office", *got.PrimaryPlace)
	require.NotNil(t, got.PrimaryActivity)
	assert.Equal(t, models.ActivityDeepWork, *got.PrimaryActivity)
	assert.Equal(t, "Office - Deep Work", got.Title)
}

func TestBuildWeightedConfidence(t *testing.T) {
	segs := []models.ActivitySegment{
		seg(0, 45, "Office", models.ActivityDeepWork, 0.8), // 45 min at 0.8
		seg(45, 60, "Cafe", models.ActivityLeisure, 0.4),   // 15 min at 0.4
	}

	got := Build("u1", hourStart, segs, nil)

	// (0.8*2700 + 0.4*900) / 3600 = 0.7
	assert.InDelta(t, 0.7, got.Confidence, 0.001)
}

func TestBuildAppBreakdown(t *testing.T) {
	s1 := seg(0, 30, "Office", models.ActivityDeepWork, 0.8)
	s1.TopApps = []models.AppUsage{
		{AppID: "editor", DisplayName: "Editor", Seconds: 1200},
		{AppID: "chat", DisplayName: "Chat", Seconds: 300},
	}
	s1.TotalScreenSeconds = 1500

	s2 := seg(30, 60, "Office", models.ActivityDeepWork, 0.8)
	s2.TopApps = []models.AppUsage{
		{AppID: "editor", DisplayName: "Editor", Seconds: 600},
	}
	s2.TotalScreenSeconds = 600

	got := Build("u1", hourStart, []models.ActivitySegment{s1, s2}, nil)

	require.Len(t, got.AppBreakdown, 2)
	assert.Equal(t, "editor", got.AppBreakdown[0].AppID)
	assert.Equal(t, 30, got.AppBreakdown[0].Minutes)
	assert.Equal(t, "chat", got.AppBreakdown[1].AppID)
	assert.Equal(t, 35, got.TotalScreenMinutes)
	assert.Contains(t, got.Description, "Editor")
}

func TestBuildEvidenceStrength(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		sessions int
		expected models.EvidenceStrength
	}{
		{"high", 12, 6, models.EvidenceHigh},
		{"medium by samples", 6, 1, models.EvidenceMedium},
		{"medium by sessions", 2, 4, models.EvidenceMedium},
		{"low", 2, 1, models.EvidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seg(0, 60, "Office", models.ActivityDeepWork, 0.8)
			s.Evidence = models.EvidenceCounts{LocationSamples: tt.samples, ScreenSessions: tt.sessions}

			got := Build("u1", hourStart, []models.ActivitySegment{s}, nil)
			assert.Equal(t, tt.expected, got.EvidenceStrength)
		})
	}
}

func TestBuildCommuteTitle(t *testing.T) {
	commute := seg(0, 40, "", models.ActivityCommute, 0.6)
	arrival := seg(40, 55, "Office", models.ActivityAwayFromDesk, 0.5)

	got := Build("u1", hourStart, []models.ActivitySegment{commute, arrival}, nil)
	assert.Equal(t, "Commute to Office", got.Title)

	// Without a destination dwell the title stays plain
	got = Build("u1", hourStart, []models.ActivitySegment{seg(0, 55, "", models.ActivityCommute, 0.6)}, nil)
	assert.Equal(t, "Commute", got.Title)
}

func TestBuildDescriptionTemplate(t *testing.T) {
	s := seg(0, 42, "Office", models.ActivityDeepWork, 0.8)
	s.TopApps = []models.AppUsage{{AppID: "editor", DisplayName: "Editor", Seconds: 1800}}
	s.TotalScreenSeconds = 1800

	got := Build("u1", hourStart, []models.ActivitySegment{s}, nil)
	assert.Equal(t, "42 min at Office. Editor", got.Description)
}
