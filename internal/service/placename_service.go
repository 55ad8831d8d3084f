package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/timeline/place"
)

// PlaceLookup resolves place name candidates near a coordinate.
// Implementations typically wrap a reverse-geocoding provider.
type PlaceLookup interface {
	Nearby(lat, lng float64) ([]place.Candidate, error)
}

// LabelCache remembers resolved labels per rounded coordinate so a day
// of segments at the same spot costs one lookup. The cache is an
// explicit dependency: callers share one instance by reference.
type LabelCache struct {
	mu     sync.Mutex
	labels map[string]string
}

// NewLabelCache creates an empty label cache
func NewLabelCache() *LabelCache {
	return &LabelCache{labels: make(map[string]string)}
}

// cacheKey rounds to ~100m so nearby centroids share an entry
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lng)
}

// Get returns the cached label for a coordinate, if any
func (c *LabelCache) Get(lat, lng float64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	label, ok := c.labels[cacheKey(lat, lng)]
	return label, ok
}

// Put stores a resolved label for a coordinate. Empty labels are cached
// too: "nothing nearby" is also worth remembering.
func (c *LabelCache) Put(lat, lng float64, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels[cacheKey(lat, lng)] = label
}

// Len returns the number of cached coordinates
func (c *LabelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.labels)
}

// PlaceNameService attaches display labels to segments that have a
// centroid but no user place match
type PlaceNameService struct {
	lookup PlaceLookup
	cache  *LabelCache
}

// NewPlaceNameService creates a new place name service
func NewPlaceNameService(lookup PlaceLookup, cache *LabelCache) *PlaceNameService {
	return &PlaceNameService{lookup: lookup, cache: cache}
}

// EnrichSegments fills PlaceLabel on unlabeled dwell segments.
// Enrichment is best effort: lookup failures are logged and skipped,
// never propagated, so the pipeline always completes.
func (s *PlaceNameService) EnrichSegments(segments []models.ActivitySegment) int {
	if s.lookup == nil {
		return 0
	}

	lookups := 0
	for i := range segments {
		seg := &segments[i]
		if seg.IsCommute() || seg.PlaceLabel != nil {
			continue
		}
		if seg.CentroidLat == nil || seg.CentroidLng == nil {
			continue
		}

		lat, lng := *seg.CentroidLat, *seg.CentroidLng
		if label, ok := s.cache.Get(lat, lng); ok {
			if label != "" {
				seg.PlaceLabel = &label
			}
			continue
		}

		label := s.resolve(lat, lng, seg.Duration(), seg.Evidence.LocationSamples)
		lookups++
		s.cache.Put(lat, lng, label)
		if label != "" {
			seg.PlaceLabel = &label
		}
	}

	return lookups
}

// resolve picks the best-scoring candidate name near a coordinate, or
// empty when nothing credible is found
func (s *PlaceNameService) resolve(lat, lng float64, dwell time.Duration, samples int) string {
	candidates, err := s.lookup.Nearby(lat, lng)
	if err != nil {
		log.Printf("[PlaceName] lookup failed at %.5f,%.5f: %v", lat, lng, err)
		return ""
	}

	var bestName string
	var best place.Assessment
	for _, cand := range candidates {
		a := place.Score(lat, lng, cand, dwell, samples)
		if a.Score > best.Score {
			best = a
			bestName = cand.Name
		}
	}

	return place.DisplayName(bestName, best)
}
