package segments

// scoreConfidence combines three bounded evidence terms into a [0,1]
// confidence score:
//
//	location term  (0-0.4): tiered by sample count, scaled by the
//	                        place-match ratio
//	screen term    (0-0.3): tiered by session count
//	consensus term (0-0.3): the dominant app category's share of the
//	                        total screen seconds
func scoreConfidence(sampleCount int, placeMatchRatio float64, sessionCount int, consensus float64) float64 {
	var location float64
	switch {
	case sampleCount >= 10:
		location = 0.4
	case sampleCount >= 5:
		location = 0.3
	case sampleCount >= 1:
		location = 0.15
	}
	location *= placeMatchRatio

	var screen float64
	switch {
	case sessionCount >= 5:
		screen = 0.3
	case sessionCount >= 2:
		screen = 0.2
	case sessionCount >= 1:
		screen = 0.1
	}

	score := location + screen + 0.3*consensus

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
