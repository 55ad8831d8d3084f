package reconcile

import (
	"sort"
	"time"
)

// Free sub-intervals at or below this floor are dropped by trimming.
const minGapSeconds = 60

// interval is a half-open time span [Start, End).
type interval struct {
	Start time.Time
	End   time.Time
}

func (iv interval) duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv interval) overlaps(other interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// subtract removes every occupied interval from the candidate span and
// returns the surviving sub-intervals longer than the gap floor, in
// chronological order.
func subtract(candidate interval, occupied []interval) []interval {
	remaining := []interval{candidate}

	sorted := make([]interval, len(occupied))
	copy(sorted, occupied)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	for _, occ := range sorted {
		var next []interval
		for _, r := range remaining {
			if !r.overlaps(occ) {
				next = append(next, r)
				continue
			}
			if occ.Start.After(r.Start) {
				next = append(next, interval{Start: r.Start, End: occ.Start})
			}
			if occ.End.Before(r.End) {
				next = append(next, interval{Start: occ.End, End: r.End})
			}
		}
		remaining = next
	}

	var kept []interval
	for _, r := range remaining {
		if r.duration() > minGapSeconds*time.Second {
			kept = append(kept, r)
		}
	}
	return kept
}

// overlapsAny reports whether the candidate overlaps any occupied span.
func overlapsAny(candidate interval, occupied []interval) bool {
	for _, occ := range occupied {
		if candidate.overlaps(occ) {
			return true
		}
	}
	return false
}
