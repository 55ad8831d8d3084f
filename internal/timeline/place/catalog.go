package place

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lifelog-labs/timeline-backend-go/internal/spatial"
)

// catalogRangeMeters bounds the candidate search: past this distance
// the scorer rejects every candidate anyway.
const catalogRangeMeters = 300.0

// CatalogEntry is one named place in a catalog file.
type CatalogEntry struct {
	Name       string   `yaml:"name"`
	Latitude   float64  `yaml:"latitude"`
	Longitude  float64  `yaml:"longitude"`
	VenueTypes []string `yaml:"venueTypes"`
}

// Catalog serves place name candidates from a static list, for
// deployments without a reverse-geocoding provider.
type Catalog struct {
	entries []CatalogEntry
}

// NewCatalog creates a catalog from in-memory entries.
func NewCatalog(entries []CatalogEntry) *Catalog {
	return &Catalog{entries: entries}
}

// LoadCatalog reads catalog entries from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read place catalog: %w", err)
	}

	var entries []CatalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse place catalog: %w", err)
	}

	return &Catalog{entries: entries}, nil
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Nearby returns candidates within scoring range of the coordinate.
func (c *Catalog) Nearby(lat, lng float64) ([]Candidate, error) {
	var candidates []Candidate
	for _, e := range c.entries {
		if spatial.HaversineDistance(lat, lng, e.Latitude, e.Longitude) > catalogRangeMeters {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:       e.Name,
			Latitude:   e.Latitude,
			Longitude:  e.Longitude,
			VenueTypes: e.VenueTypes,
		})
	}
	return candidates, nil
}
