package segments

import (
	"sort"
	"time"

	"github.com/lifelog-labs/timeline-backend-go/internal/models"
	"github.com/lifelog-labs/timeline-backend-go/internal/spatial"
)

// rawSegment is an intermediate time interval produced by clustering,
// before screen-time enrichment and activity inference.
type rawSegment struct {
	start time.Time
	end   time.Time

	commute  bool
	movement models.MovementType
	distance float64 // meters traveled, commutes only

	points       []spatial.Point
	centroid     spatial.Point
	sampleCount  int
	place        *models.UserPlace
	placeMatches int // samples within the matched place's radius
}

func (r rawSegment) duration() time.Duration {
	return r.end.Sub(r.start)
}

// placeMatchRatio is the share of the segment's samples that fall inside
// the matched place's radius. Segments without a place get a neutral 0.5
// so unknown locations are neither rewarded nor zeroed out.
func (r rawSegment) placeMatchRatio() float64 {
	if r.place == nil || r.sampleCount == 0 {
		return 0.5
	}
	return float64(r.placeMatches) / float64(r.sampleCount)
}

// clusterSamples groups location samples into alternating dwell and
// commute segments. A dwell grows while samples stay within the cluster
// radius of its centroid; a jump beyond the radius opens a commute that
// runs until the speed between samples drops below the moving threshold.
func (g *Generator) clusterSamples(samples []models.LocationSample) []rawSegment {
	if len(samples) == 0 {
		return nil
	}

	ordered := make([]models.LocationSample, len(samples))
	copy(ordered, samples)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var result []rawSegment

	cur := newDwell(ordered[0])
	prev := ordered[0]

	for _, s := range ordered[1:] {
		d := spatial.HaversineDistance(prev.Latitude, prev.Longitude, s.Latitude, s.Longitude)
		speed := spatial.SpeedMps(prev.Latitude, prev.Longitude, prev.Timestamp.Unix(),
			s.Latitude, s.Longitude, s.Timestamp.Unix())

		if cur.commute {
			if speed < g.cfg.MovingSpeedMps && d <= g.cfg.ClusterRadiusMeters {
				// Movement settled, close the commute
				cur.end = prev.Timestamp
				cur.finalizeCommute()
				result = append(result, cur)
				cur = newDwell(s)
			} else {
				cur.distance += d
				cur.end = s.Timestamp
				cur.points = append(cur.points, spatial.Point{Lat: s.Latitude, Lon: s.Longitude})
				cur.sampleCount++
			}
		} else {
			distToCentroid := spatial.HaversineDistance(cur.centroid.Lat, cur.centroid.Lon, s.Latitude, s.Longitude)
			if distToCentroid <= g.cfg.ClusterRadiusMeters {
				cur.end = s.Timestamp
				cur.points = append(cur.points, spatial.Point{Lat: s.Latitude, Lon: s.Longitude})
				cur.centroid = spatial.Centroid(cur.points)
				cur.sampleCount++
			} else {
				// Left the cluster: close the dwell, open a commute
				result = append(result, cur)
				cur = rawSegment{
					start:       prev.Timestamp,
					end:         s.Timestamp,
					commute:     true,
					distance:    d,
					points:      []spatial.Point{{Lat: prev.Latitude, Lon: prev.Longitude}, {Lat: s.Latitude, Lon: s.Longitude}},
					sampleCount: 2,
				}
			}
		}

		prev = s
	}

	if cur.commute {
		cur.finalizeCommute()
	}
	result = append(result, cur)

	return result
}

// newDwell starts a dwell segment anchored at a single sample.
func newDwell(s models.LocationSample) rawSegment {
	p := spatial.Point{Lat: s.Latitude, Lon: s.Longitude}
	return rawSegment{
		start:       s.Timestamp,
		end:         s.Timestamp,
		points:      []spatial.Point{p},
		centroid:    p,
		sampleCount: 1,
	}
}

// finalizeCommute classifies the movement type from the average speed.
func (r *rawSegment) finalizeCommute() {
	seconds := r.end.Sub(r.start).Seconds()
	avgSpeed := 0.0
	if seconds > 0 {
		avgSpeed = r.distance / seconds
	}
	r.movement = classifyMovement(avgSpeed)
	r.centroid = spatial.Centroid(r.points)
}

// matchPlaces attaches the nearest known place to each dwell segment
// whose centroid falls within the place's radius, and counts how many of
// the segment's samples confirm the match.
func (g *Generator) matchPlaces(raw []rawSegment, places []models.UserPlace) {
	for i := range raw {
		if raw[i].commute {
			continue
		}

		var best *models.UserPlace
		bestDist := 0.0
		for j := range places {
			p := &places[j]
			d := spatial.HaversineDistance(raw[i].centroid.Lat, raw[i].centroid.Lon, p.Latitude, p.Longitude)
			radius := p.RadiusMeters
			if radius <= 0 {
				radius = g.cfg.ClusterRadiusMeters
			}
			if d <= radius && (best == nil || d < bestDist) {
				best = p
				bestDist = d
			}
		}

		if best == nil {
			continue
		}

		raw[i].place = best
		radius := best.RadiusMeters
		if radius <= 0 {
			radius = g.cfg.ClusterRadiusMeters
		}
		for _, pt := range raw[i].points {
			if spatial.HaversineDistance(pt.Lat, pt.Lon, best.Latitude, best.Longitude) <= radius {
				raw[i].placeMatches++
			}
		}
	}
}

// mergeAdjacent merges neighboring segments separated by at most the
// merge gap: dwells merge when they share a place or their centroids are
// within the merge distance; commutes merge when the movement matches.
func (g *Generator) mergeAdjacent(raw []rawSegment) []rawSegment {
	if len(raw) < 2 {
		return raw
	}

	merged := []rawSegment{raw[0]}
	for _, next := range raw[1:] {
		cur := &merged[len(merged)-1]
		gap := next.start.Sub(cur.end)

		if gap <= g.cfg.MergeGap() && g.canMerge(*cur, next) {
			cur.end = next.end
			cur.points = append(cur.points, next.points...)
			cur.sampleCount += next.sampleCount
			if cur.commute {
				cur.distance += next.distance
				cur.finalizeCommute()
			} else {
				cur.centroid = spatial.Centroid(cur.points)
				cur.placeMatches += next.placeMatches
				if cur.place == nil {
					cur.place = next.place
				}
			}
			continue
		}

		merged = append(merged, next)
	}

	return merged
}

func (g *Generator) canMerge(a, b rawSegment) bool {
	if a.commute != b.commute {
		return false
	}
	if a.commute {
		return a.movement == b.movement
	}
	if a.place != nil && b.place != nil && a.place.ID == b.place.ID {
		return true
	}
	dist := spatial.HaversineDistance(a.centroid.Lat, a.centroid.Lon, b.centroid.Lat, b.centroid.Lon)
	return dist <= g.cfg.MergeDistanceMeters
}

// filterShort discards merged segments below the duration floors. The
// dwell floor can be bypassed for a later cross-hour re-merge.
func (g *Generator) filterShort(raw []rawSegment) []rawSegment {
	var kept []rawSegment
	for _, r := range raw {
		if r.commute {
			if r.duration() >= g.cfg.MinCommute() {
				kept = append(kept, r)
			}
			continue
		}
		if g.cfg.SkipDwellFloor || r.duration() >= g.cfg.MinDwell() {
			kept = append(kept, r)
		}
	}
	return kept
}
