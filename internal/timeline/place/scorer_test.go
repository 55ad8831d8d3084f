package place

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// candidateAt builds a candidate offset north of the origin by roughly
// the given number of meters (1 degree of latitude ~= 111.32 km).
func candidateAt(meters float64, types ...string) Candidate {
	return Candidate{
		Name:       "Blue Bottle",
		Latitude:   meters / 111320.0,
		Longitude:  0,
		VenueTypes: types,
	}
}

func TestScoreMediumMatch(t *testing.T) {
	// 80m away, 20-minute dwell, 4 samples, not reverse-geocoded:
	// 1.0 x 0.55 x 1.0 x 0.95 = 0.5225
	a := Score(0, 0, candidateAt(80), 20*time.Minute, 4)

	assert.InDelta(t, 0.5225, a.Score, 0.01)
	assert.Equal(t, LevelMedium, a.Level)
	assert.True(t, a.ShouldShow)
	assert.False(t, a.UseFuzzyFormat)
	assert.Equal(t, "Blue Bottle", DisplayName("Blue Bottle", a))
}

func TestScoreHighMatchClamped(t *testing.T) {
	a := Score(0, 0, candidateAt(10), 40*time.Minute, 12)

	assert.InDelta(t, 1.0, a.Score, 0.001) // 1.0 x 1.1 x 1.05 clamps to 1
	assert.Equal(t, LevelHigh, a.Level)
	assert.True(t, a.ShouldShow)
	assert.False(t, a.UseFuzzyFormat)
}

func TestScoreLowMatchGetsNearPrefix(t *testing.T) {
	a := Score(0, 0, candidateAt(120), 10*time.Minute, 5)

	assert.InDelta(t, 0.3325, a.Score, 0.01)
	assert.Equal(t, LevelLow, a.Level)
	assert.True(t, a.ShouldShow)
	assert.True(t, a.UseFuzzyFormat)
	assert.Equal(t, "Near Blue Bottle", DisplayName("Blue Bottle", a))
}

func TestScoreRejectsDistantMatch(t *testing.T) {
	a := Score(0, 0, candidateAt(400), 2*time.Minute, 1)

	assert.Less(t, a.Score, 0.15)
	assert.Equal(t, LevelVeryLow, a.Level)
	assert.False(t, a.ShouldShow)
	assert.Empty(t, DisplayName("Blue Bottle", a))
}

func TestReverseGeocodePenalty(t *testing.T) {
	direct := Score(0, 0, candidateAt(30), 20*time.Minute, 5)

	geocoded := candidateAt(30)
	geocoded.FromReverseGeocode = true
	penalized := Score(0, 0, geocoded, 20*time.Minute, 5)

	assert.InDelta(t, direct.Score*0.9, penalized.Score, 0.001)
}

func TestLargeVenueBonusBeyondConfidentDistance(t *testing.T) {
	plain := Score(0, 0, candidateAt(90), 20*time.Minute, 5)
	venue := Score(0, 0, candidateAt(90, "stadium"), 20*time.Minute, 5)

	assert.InDelta(t, plain.Score*1.15, venue.Score, 0.001)

	// No bonus when the match is already close
	nearPlain := Score(0, 0, candidateAt(20), 20*time.Minute, 5)
	nearVenue := Score(0, 0, candidateAt(20, "stadium"), 20*time.Minute, 5)
	assert.InDelta(t, nearPlain.Score, nearVenue.Score, 0.001)
}

func TestSmallVenuePenaltyBeyondCloseDistance(t *testing.T) {
	plain := Score(0, 0, candidateAt(60), 20*time.Minute, 5)
	cafe := Score(0, 0, candidateAt(60, "cafe"), 20*time.Minute, 5)

	assert.InDelta(t, plain.Score*0.85, cafe.Score, 0.001)
}

func TestDisplayNameKeepsExistingPrefix(t *testing.T) {
	a := Score(0, 0, candidateAt(120), 10*time.Minute, 5)
	assert.True(t, a.UseFuzzyFormat)
	assert.Equal(t, "Near Downtown", DisplayName("Near Downtown", a))
}

func TestDistanceFactorTiers(t *testing.T) {
	tests := []struct {
		meters   float64
		expected float64
	}{
		{10, 1.0},
		{40, 0.9},
		{60, 0.75},
		{80, 0.55},
		{120, 0.35},
		{300, 0.1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, distanceFactor(tt.meters), 0.001, "at %.0fm", tt.meters)
	}
}
