package segments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
)

// 2026-03-04 is a Wednesday, so 10:00 falls in typical work hours.
var hourStart = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

const (
	homeLat = 37.7749
	homeLng = -122.4194
)

func testCatalog() *models.AppCatalog {
	c := models.DefaultAppCatalog()
	c.Set("app.work", models.AppCategoryWork)
	c.Set("app.comms", models.AppCategoryComms)
	c.Set("app.video", models.AppCategoryEntertainment)
	c.Set("app.social", models.AppCategorySocial)
	c.Set("app.ignore", models.AppCategoryIgnore)
	return c
}

func newTestGenerator() *Generator {
	return NewGenerator(DefaultConfig(), testCatalog())
}

func sample(minute int, lat, lng float64) models.LocationSample {
	return models.LocationSample{
		UserID:    "u1",
		Timestamp: hourStart.Add(time.Duration(minute) * time.Minute),
		Latitude:  lat,
		Longitude: lng,
	}
}

// stationarySamples returns n samples at the same point, one per interval.
func stationarySamples(n int, startMinute int, lat, lng float64) []models.LocationSample {
	samples := make([]models.LocationSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, sample(startMinute+i*5, lat, lng))
	}
	return samples
}

func session(appID, name string, startMinute, endMinute int) models.ScreenSession {
	return models.ScreenSession{
		UserID:      "u1",
		AppID:       appID,
		DisplayName: name,
		Start:       hourStart.Add(time.Duration(startMinute) * time.Minute),
		End:         hourStart.Add(time.Duration(endMinute) * time.Minute),
	}
}

func homePlace() models.UserPlace {
	return models.UserPlace{
		ID:           "place-home",
		UserID:       "u1",
		Label:        "Home",
		Category:     models.PlaceCategoryHome,
		Latitude:     homeLat,
		Longitude:    homeLng,
		RadiusMeters: 100,
	}
}

func workPlace() models.UserPlace {
	return models.UserPlace{
		ID:           "place-office",
		UserID:       "u1",
		Label:        "Office",
		Category:     models.PlaceCategoryWork,
		Latitude:     homeLat + 0.05, // ~5.5km away
		Longitude:    homeLng,
		RadiusMeters: 100,
	}
}

func TestGenerateEmptyEvidence(t *testing.T) {
	g := newTestGenerator()
	segs := g.Generate("u1", hourStart, models.Evidence{})
	assert.Empty(t, segs)
}

func TestGenerateSingleDwellAtKnownPlace(t *testing.T) {
	g := newTestGenerator()
	ev := models.Evidence{
		Samples: stationarySamples(12, 0, homeLat, homeLng),
		Places:  []models.UserPlace{homePlace()},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)

	seg := segs[0]
	assert.True(t, seg.Start.Before(seg.End), "start must precede end")
	require.NotNil(t, seg.PlaceID)
	assert.Equal(t, "place-home", *seg.PlaceID)
	require.NotNil(t, seg.PlaceLabel)
	assert.Equal(t, "Home", *seg.PlaceLabel)
	assert.Equal(t, 12, seg.Evidence.LocationSamples)
	assert.Equal(t, hourStart, seg.HourBucket)
}

func TestGenerateConfidenceBounds(t *testing.T) {
	g := newTestGenerator()
	ev := models.Evidence{
		Samples: stationarySamples(12, 0, homeLat, homeLng),
		Places:  []models.UserPlace{homePlace()},
		Sessions: []models.ScreenSession{
			session("app.work", "Editor", 0, 40),
			session("app.comms", "Chat", 40, 45),
		},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.NotEmpty(t, segs)
	for _, seg := range segs {
		assert.GreaterOrEqual(t, seg.Confidence, 0.0)
		assert.LessOrEqual(t, seg.Confidence, 1.0)
	}
}

func TestScoreConfidenceFormula(t *testing.T) {
	tests := []struct {
		name        string
		samples     int
		placeRatio  float64
		sessions    int
		consensus   float64
		expected    float64
	}{
		{"strong evidence", 12, 1.0, 6, 0.8, 0.94},
		{"no evidence", 0, 0.5, 0, 0, 0},
		{"location only", 10, 1.0, 0, 0, 0.4},
		{"screen only", 0, 0.5, 5, 1.0, 0.6},
		{"mid tiers", 5, 1.0, 2, 0.5, 0.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreConfidence(tt.samples, tt.placeRatio, tt.sessions, tt.consensus)
			assert.InDelta(t, tt.expected, got, 0.001)
		})
	}
}

func TestInferDeepWork(t *testing.T) {
	// 40 min on a work app plus 5 min on a comms app: comms share ~11%,
	// well under the collaborative threshold.
	g := newTestGenerator()
	ev := models.Evidence{
		Sessions: []models.ScreenSession{
			session("app.work", "Editor", 0, 40),
			session("app.comms", "Chat", 40, 45),
		},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityDeepWork, segs[0].InferredActivity)
}

func TestInferCollaborativeWork(t *testing.T) {
	// Work dominant but comms share over 40%.
	g := newTestGenerator()
	ev := models.Evidence{
		Sessions: []models.ScreenSession{
			session("app.work", "Editor", 0, 25),
			session("app.comms", "Chat", 25, 45),
		},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityCollaborativeWork, segs[0].InferredActivity)
}

func TestInferMeeting(t *testing.T) {
	// 25 minutes of comms out of 30 total screen minutes.
	g := newTestGenerator()
	ev := models.Evidence{
		Sessions: []models.ScreenSession{
			session("app.comms", "Meet", 0, 25),
			session("app.work", "Editor", 25, 30),
		},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityMeeting, segs[0].InferredActivity)
}

func TestInferEntertainmentByTimeOfDay(t *testing.T) {
	g := newTestGenerator()
	ev := models.Evidence{
		Sessions: []models.ScreenSession{session("app.video", "Video", 0, 25)},
	}

	// Wednesday 10:00 is work hours
	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityDistractedTime, segs[0].InferredActivity)

	// Saturday evening is leisure
	weekend := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)
	evWeekend := models.Evidence{
		Sessions: []models.ScreenSession{{
			UserID: "u1", AppID: "app.video", DisplayName: "Video",
			Start: weekend, End: weekend.Add(25 * time.Minute),
		}},
	}
	segs = g.Generate("u1", weekend, evWeekend)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityLeisure, segs[0].InferredActivity)
}

func TestInferSocial(t *testing.T) {
	g := newTestGenerator()

	short := models.Evidence{
		Sessions: []models.ScreenSession{session("app.social", "Feed", 0, 10)},
	}
	segs := g.Generate("u1", hourStart, short)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivitySocialBreak, segs[0].InferredActivity)

	long := models.Evidence{
		Sessions: []models.ScreenSession{session("app.social", "Feed", 0, 40)},
	}
	segs = g.Generate("u1", hourStart, long)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityExtendedSocial, segs[0].InferredActivity)
}

func TestInferLowScreenTimeByPlace(t *testing.T) {
	g := newTestGenerator()

	tests := []struct {
		name     string
		places   []models.UserPlace
		expected models.ActivityType
	}{
		{"home place", []models.UserPlace{homePlace()}, models.ActivityPersonalTime},
		{"no known place", nil, models.ActivityOfflineActivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := models.Evidence{
				Samples: stationarySamples(8, 0, homeLat, homeLng),
				Places:  tt.places,
			}
			segs := g.Generate("u1", hourStart, ev)
			require.Len(t, segs, 1)
			assert.Equal(t, tt.expected, segs[0].InferredActivity)
		})
	}
}

func TestInferAwayFromDesk(t *testing.T) {
	g := newTestGenerator()
	office := workPlace()
	ev := models.Evidence{
		Samples: stationarySamples(8, 0, office.Latitude, office.Longitude),
		Places:  []models.UserPlace{office},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityAwayFromDesk, segs[0].InferredActivity)
}

func TestWorkoutOverridesScreenEvidence(t *testing.T) {
	g := newTestGenerator()
	ev := models.Evidence{
		Samples: stationarySamples(8, 0, homeLat, homeLng),
		Sessions: []models.ScreenSession{
			session("app.work", "Editor", 0, 40),
		},
		Workouts: []models.HealthWorkout{{
			UserID: "u1", ActivityType: "running",
			Start: hourStart, End: hourStart.Add(35 * time.Minute),
		}},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivityWorkout, segs[0].InferredActivity)
	assert.True(t, segs[0].Evidence.HasHealthData)
}

func TestSleepSignal(t *testing.T) {
	g := newTestGenerator()
	ev := models.Evidence{
		Samples: stationarySamples(8, 0, homeLat, homeLng),
		Workouts: []models.HealthWorkout{{
			UserID: "u1", ActivityType: "sleep",
			Start: hourStart, End: hourStart.Add(time.Hour),
		}},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, models.ActivitySleep, segs[0].InferredActivity)
}

func TestCommuteDetection(t *testing.T) {
	g := newTestGenerator()

	// Dwell at home, then drive away: 500m jumps once per minute (~8.3 m/s).
	samples := stationarySamples(4, 0, homeLat, homeLng) // 0, 5, 10, 15 min
	for i := 1; i <= 8; i++ {
		samples = append(samples, sample(15+i, homeLat+float64(i)*0.0045, homeLng))
	}
	// Settle at the destination
	destLat := homeLat + 8*0.0045
	for i := 0; i < 5; i++ {
		samples = append(samples, sample(24+i*5, destLat, homeLng))
	}

	ev := models.Evidence{Samples: samples, Places: []models.UserPlace{homePlace()}}
	segs := g.Generate("u1", hourStart, ev)
	require.GreaterOrEqual(t, len(segs), 3)

	var commute *models.ActivitySegment
	for i := range segs {
		if segs[i].IsCommute() {
			commute = &segs[i]
		}
	}
	require.NotNil(t, commute, "expected a commute segment")
	require.NotNil(t, commute.MovementType)
	assert.Equal(t, models.MovementDriving, *commute.MovementType)
	require.NotNil(t, commute.DistanceMeters)
	assert.Greater(t, *commute.DistanceMeters, 1000.0)
}

func TestDwellFloorDropsShortStops(t *testing.T) {
	g := newTestGenerator()

	// A 2-minute stop far from everything else
	samples := []models.LocationSample{
		sample(0, homeLat, homeLng),
		sample(2, homeLat, homeLng),
	}

	segs := g.Generate("u1", hourStart, models.Evidence{Samples: samples})
	assert.Empty(t, segs)
}

func TestDwellFloorBypass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipDwellFloor = true
	g := NewGenerator(cfg, testCatalog())

	samples := []models.LocationSample{
		sample(0, homeLat, homeLng),
		sample(2, homeLat, homeLng),
	}

	segs := g.Generate("u1", hourStart, models.Evidence{Samples: samples})
	assert.Len(t, segs, 1)
}

func TestMergeSamePlaceAcrossGap(t *testing.T) {
	g := newTestGenerator()

	// Two dwell clusters at the same place separated by a 4-minute gap
	samples := stationarySamples(3, 0, homeLat, homeLng) // 0-10 min
	samples = append(samples, stationarySamples(3, 14, homeLat, homeLng)...)

	ev := models.Evidence{Samples: samples, Places: []models.UserPlace{homePlace()}}
	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, 6, segs[0].Evidence.LocationSamples)
}

func TestNoOverlappingSegments(t *testing.T) {
	g := newTestGenerator()

	samples := stationarySamples(4, 0, homeLat, homeLng)
	for i := 1; i <= 8; i++ {
		samples = append(samples, sample(15+i, homeLat+float64(i)*0.0045, homeLng))
	}
	destLat := homeLat + 8*0.0045
	for i := 0; i < 5; i++ {
		samples = append(samples, sample(24+i*5, destLat, homeLng))
	}

	segs := g.Generate("u1", hourStart, models.Evidence{Samples: samples})
	for i := 1; i < len(segs); i++ {
		assert.False(t, segs[i].Start.Before(segs[i-1].End),
			"segment %d overlaps segment %d", i, i-1)
	}
}

func TestScreenOnlySynthesisClampsToSessionBounds(t *testing.T) {
	g := newTestGenerator()

	// Sessions cover 10:10-10:35 only; the synthesized segment must not
	// span the full hour.
	ev := models.Evidence{
		Sessions: []models.ScreenSession{
			session("app.work", "Editor", 10, 30),
			session("app.comms", "Chat", 30, 35),
		},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, hourStart.Add(10*time.Minute), segs[0].Start)
	assert.Equal(t, hourStart.Add(35*time.Minute), segs[0].End)
	assert.Equal(t, 0, segs[0].Evidence.LocationSamples)
}

func TestIgnoredAppsExcluded(t *testing.T) {
	g := newTestGenerator()
	ev := models.Evidence{
		Sessions: []models.ScreenSession{
			session("app.work", "Editor", 0, 20),
			session("app.ignore", "Launcher", 20, 40),
		},
	}

	segs := g.Generate("u1", hourStart, ev)
	require.Len(t, segs, 1)
	assert.Equal(t, 20*60, segs[0].TotalScreenSeconds)
	for _, app := range segs[0].TopApps {
		assert.NotEqual(t, "app.ignore", app.AppID)
	}
}

func TestTopAppsCappedAndSorted(t *testing.T) {
	g := newTestGenerator()

	apps := []string{"a", "b", "c", "d", "e", "f", "g"}
	var sessions []models.ScreenSession
	for i, id := range apps {
		sessions = append(sessions, session("app."+id, id, i*7, i*7+7-i))
	}

	segs := g.Generate("u1", hourStart, models.Evidence{Sessions: sessions})
	require.Len(t, segs, 1)
	assert.LessOrEqual(t, len(segs[0].TopApps), 5)
	for i := 1; i < len(segs[0].TopApps); i++ {
		assert.GreaterOrEqual(t, segs[0].TopApps[i-1].Seconds, segs[0].TopApps[i].Seconds)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newTestGenerator()
	ev := models.Evidence{
		Samples: stationarySamples(12, 0, homeLat, homeLng),
		Places:  []models.UserPlace{homePlace()},
		Sessions: []models.ScreenSession{
			session("app.work", "Editor", 0, 40),
			session("app.comms", "Chat", 40, 50),
		},
	}

	first := g.Generate("u1", hourStart, ev)
	second := g.Generate("u1", hourStart, ev)
	require.Equal(t, len(first), len(second))

	for i := range first {
		a, b := first[i], second[i]
		a.ID, b.ID = "", ""
		assert.Equal(t, a, b)
	}
}
