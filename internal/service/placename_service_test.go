package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/timeline/place"
)

type fakeLookup struct {
	candidates []place.Candidate
	err        error
	calls      int
}

func (f *fakeLookup) Nearby(lat, lng float64) ([]place.Candidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func dwellSegment(lat, lng float64, minutes, samples int) models.ActivitySegment {
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	return models.ActivitySegment{
		ID:               "seg-1",
		UserID:           "u1",
		Start:            start,
		End:              start.Add(time.Duration(minutes) * time.Minute),
		InferredActivity: models.ActivityPersonalTime,
		CentroidLat:      &lat,
		CentroidLng:      &lng,
		Evidence:         models.EvidenceCounts{LocationSamples: samples},
	}
}

func TestEnrichSegmentsLabelsUnlabeledDwell(t *testing.T) {
	lookup := &fakeLookup{candidates: []place.Candidate{
		{Name: "Blue Bottle", Latitude: 37.7763, Longitude: -122.4232},
	}}
	svc := NewPlaceNameService(lookup, NewLabelCache())

	segs := []models.ActivitySegment{dwellSegment(37.7763, -122.4232, 40, 12)}
	lookups := svc.EnrichSegments(segs)

	assert.Equal(t, 1, lookups)
	assert.Equal(t, 1, lookup.calls)
	require.NotNil(t, segs[0].PlaceLabel)
	assert.Equal(t, "Blue Bottle", *segs[0].PlaceLabel)
}

func TestEnrichSegmentsFuzzyLabelGetsNearPrefix(t *testing.T) {
	// ~120m away with a short dwell scores low, so the label is fuzzy.
	lookup := &fakeLookup{candidates: []place.Candidate{
		{Name: "Blue Bottle", Latitude: 120.0 / 111320.0, Longitude: 0},
	}}
	svc := NewPlaceNameService(lookup, NewLabelCache())

	segs := []models.ActivitySegment{dwellSegment(0, 0, 10, 5)}
	svc.EnrichSegments(segs)

	require.NotNil(t, segs[0].PlaceLabel)
	assert.Equal(t, "Near Blue Bottle", *segs[0].PlaceLabel)
}

func TestEnrichSegmentsCacheSharesLookups(t *testing.T) {
	lookup := &fakeLookup{candidates: []place.Candidate{
		{Name: "Office", Latitude: 37.7763, Longitude: -122.4232},
	}}
	cache := NewLabelCache()
	svc := NewPlaceNameService(lookup, cache)

	segs := []models.ActivitySegment{
		dwellSegment(37.7763, -122.4232, 40, 12),
		dwellSegment(37.7763, -122.4232, 30, 8),
	}
	lookups := svc.EnrichSegments(segs)

	assert.Equal(t, 1, lookups, "the second segment at the same spot hits the cache")
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, 1, cache.Len())
	require.NotNil(t, segs[1].PlaceLabel)
	assert.Equal(t, "Office", *segs[1].PlaceLabel)
}

func TestEnrichSegmentsCachesEmptyResults(t *testing.T) {
	// Nothing nearby is also worth remembering: the miss is cached and
	// the second segment does not trigger another lookup.
	lookup := &fakeLookup{}
	cache := NewLabelCache()
	svc := NewPlaceNameService(lookup, cache)

	segs := []models.ActivitySegment{
		dwellSegment(37.7763, -122.4232, 40, 12),
		dwellSegment(37.7763, -122.4232, 30, 8),
	}
	lookups := svc.EnrichSegments(segs)

	assert.Equal(t, 1, lookups)
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, 1, cache.Len())
	assert.Nil(t, segs[0].PlaceLabel)
	assert.Nil(t, segs[1].PlaceLabel)
}

func TestEnrichSegmentsSkipsIneligibleSegments(t *testing.T) {
	labeled := dwellSegment(37.7763, -122.4232, 40, 12)
	existing := "Home"
	labeled.PlaceLabel = &existing

	commute := dwellSegment(37.7763, -122.4232, 15, 6)
	commute.InferredActivity = models.ActivityCommute

	noCentroid := dwellSegment(0, 0, 40, 12)
	noCentroid.CentroidLat = nil
	noCentroid.CentroidLng = nil

	lookup := &fakeLookup{candidates: []place.Candidate{
		{Name: "Office", Latitude: 37.7763, Longitude: -122.4232},
	}}
	svc := NewPlaceNameService(lookup, NewLabelCache())

	segs := []models.ActivitySegment{labeled, commute, noCentroid}
	lookups := svc.EnrichSegments(segs)

	assert.Equal(t, 0, lookups)
	assert.Equal(t, 0, lookup.calls)
	assert.Equal(t, "Home", *segs[0].PlaceLabel)
	assert.Nil(t, segs[1].PlaceLabel)
	assert.Nil(t, segs[2].PlaceLabel)
}

func TestEnrichSegmentsLookupFailureIsBestEffort(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("provider down")}
	svc := NewPlaceNameService(lookup, NewLabelCache())

	segs := []models.ActivitySegment{dwellSegment(37.7763, -122.4232, 40, 12)}
	lookups := svc.EnrichSegments(segs)

	assert.Equal(t, 1, lookups)
	assert.Nil(t, segs[0].PlaceLabel)
}

func TestEnrichSegmentsNilLookupIsDisabled(t *testing.T) {
	svc := NewPlaceNameService(nil, NewLabelCache())

	segs := []models.ActivitySegment{dwellSegment(37.7763, -122.4232, 40, 12)}
	assert.Equal(t, 0, svc.EnrichSegments(segs))
	assert.Nil(t, segs[0].PlaceLabel)
}
