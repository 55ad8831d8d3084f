package place

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogNearbyFiltersByRange(t *testing.T) {
	catalog := NewCatalog([]CatalogEntry{
		{Name: "Office", Latitude: 0.0005, Longitude: 0}, // ~56m north
		{Name: "Far Cafe", Latitude: 0.01, Longitude: 0}, // ~1.1km north
	})

	candidates, err := catalog.Nearby(0, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Office", candidates[0].Name)
}

func TestCatalogNearbyEmptyWhenNothingInRange(t *testing.T) {
	catalog := NewCatalog([]CatalogEntry{
		{Name: "Far Cafe", Latitude: 0.01, Longitude: 0},
	})

	candidates, err := catalog.Nearby(0, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.yaml")
	data := `
- name: Blue Bottle
  latitude: 37.7763
  longitude: -122.4232
  venueTypes: [cafe]
- name: Civic Center
  latitude: 37.7793
  longitude: -122.4193
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	candidates, err := catalog.Nearby(37.7763, -122.4232)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Blue Bottle", candidates[0].Name)
	assert.Equal(t, []string{"cafe"}, candidates[0].VenueTypes)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
