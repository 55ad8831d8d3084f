package segments

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable thresholds of the segment generator.
type Config struct {
	// ClusterRadiusMeters bounds how far a sample may drift from a dwell
	// cluster's centroid before the dwell is closed.
	ClusterRadiusMeters float64 `yaml:"clusterRadiusMeters"`

	// MergeDistanceMeters bounds the centroid distance between adjacent
	// dwells that may be merged when their places do not match.
	MergeDistanceMeters float64 `yaml:"mergeDistanceMeters"`

	// MergeGapSeconds is the maximum gap between adjacent segments that
	// still allows a merge.
	MergeGapSeconds int `yaml:"mergeGapSeconds"`

	// MinDwellSeconds is the dwell floor: merged dwells shorter than this
	// are discarded.
	MinDwellSeconds int `yaml:"minDwellSeconds"`

	// MinCommuteSeconds is the floor for movement segments.
	MinCommuteSeconds int `yaml:"minCommuteSeconds"`

	// MovingSpeedMps separates dwelling from moving between samples.
	MovingSpeedMps float64 `yaml:"movingSpeedMps"`

	// WorkHourStart / WorkHourEnd bound typical work hours (local time)
	// used by the entertainment inference rule.
	WorkHourStart int `yaml:"workHourStart"`
	WorkHourEnd   int `yaml:"workHourEnd"`

	// SkipDwellFloor bypasses the dwell floor so that sub-threshold
	// dwells survive for a later cross-hour re-merge.
	SkipDwellFloor bool `yaml:"skipDwellFloor"`
}

// DefaultConfig returns the default generator thresholds.
func DefaultConfig() Config {
	return Config{
		ClusterRadiusMeters: 200,
		MergeDistanceMeters: 200,
		MergeGapSeconds:     300,
		MinDwellSeconds:     300,
		MinCommuteSeconds:   60,
		MovingSpeedMps:      1.5,
		WorkHourStart:       9,
		WorkHourEnd:         18,
	}
}

// LoadConfig loads generator thresholds from a YAML profile, layered on
// top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read threshold profile: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse threshold profile: %w", err)
	}

	return cfg, nil
}

// MergeGap returns the merge gap as a duration.
func (c Config) MergeGap() time.Duration {
	return time.Duration(c.MergeGapSeconds) * time.Second
}

// MinDwell returns the dwell floor as a duration.
func (c Config) MinDwell() time.Duration {
	return time.Duration(c.MinDwellSeconds) * time.Second
}

// MinCommute returns the commute floor as a duration.
func (c Config) MinCommute() time.Duration {
	return time.Duration(c.MinCommuteSeconds) * time.Second
}
