package segments

import "github.com/lifelog-labs/timeline-backend-go/internal/models"

// Speed thresholds (m/s) for movement classification:
// walking: 0-2 m/s (0-7.2 km/h)
// cycling: 2-8 m/s (7.2-28.8 km/h)
// driving: >8 m/s (>28.8 km/h)
const (
	walkingMaxSpeedMps = 2.0
	cyclingMaxSpeedMps = 8.0
)

// classifyMovement classifies a commute's movement type from its average speed
func classifyMovement(avgSpeedMps float64) models.MovementType {
	if avgSpeedMps < walkingMaxSpeedMps {
		return models.MovementWalking
	} else if avgSpeedMps < cyclingMaxSpeedMps {
		return models.MovementCycling
	}
	return models.MovementDriving
}
