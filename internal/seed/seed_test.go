package seed

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propwatch/server/internal/database"
)

const testDataset = `
months: 3
sale_window_days: 7
total_properties: 100
regions:
  - name: London
    slug: london
    postcode_areas: [SW1, E1]
    lat: 51.5074
    lng: -0.1278
    min_price: 400000
    max_price: 900000
    annual_growth_pct: 8.0
    market_share: 0.6
  - name: North West
    slug: north-west
    postcode_areas: [M1]
    lat: 53.4808
    lng: -2.2426
    min_price: 120000
    max_price: 350000
    annual_growth_pct: 12.0
    market_share: 0.4
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(writeDataset(t, testDataset))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Months)
	require.Len(t, ds.Regions, 2)
	assert.Equal(t, "london", ds.Regions[0].Slug)
	assert.Equal(t, []string{"M1"}, ds.Regions[1].PostcodeAreas)
}

func TestLoadDataset_Defaults(t *testing.T) {
	ds, err := LoadDataset(writeDataset(t, `
regions:
  - name: London
    slug: london
    min_price: 100
    max_price: 200
`))
	require.NoError(t, err)

	assert.Equal(t, 12, ds.Months)
	assert.Equal(t, 7, ds.SaleWindowDays)
	assert.Equal(t, 1000, ds.TotalProperties)
}

func TestLoadDataset_NoRegions(t *testing.T) {
	_, err := LoadDataset(writeDataset(t, "months: 3\n"))
	assert.Error(t, err)
}

func TestLoadDataset_MissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	store, err := database.OpenMemory()
	require.NoError(t, err)
	defer store.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ds, err := LoadDataset(writeDataset(t, testDataset))
	require.NoError(t, err)
	require.NoError(t, Run(store, ds, logger))

	regions, err := store.ListRegions()
	require.NoError(t, err)
	require.Len(t, regions, 2)

	for _, r := range regions {
		require.NotNil(t, r.Latest, "region %s has no stats", r.Region.Name)
		assert.Positive(t, r.Latest.AveragePrice)
		assert.Positive(t, r.SalesCount)
	}

	// Market share split of 100 generated sales.
	total, err := store.CountProperties()
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	london, err := store.RegionBySlug("london")
	require.NoError(t, err)
	require.NotNil(t, london)
	londonCount, err := store.CountPropertiesInRegion(london.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), londonCount)

	// Sales carry jittered coordinates around the region centroid.
	properties, err := store.PropertiesByRegion(london.ID, 5)
	require.NoError(t, err)
	require.NotEmpty(t, properties)
	require.NotNil(t, properties[0].Latitude)
	assert.InDelta(t, 51.5074, *properties[0].Latitude, 0.1)
}

func TestRun_Reseeds(t *testing.T) {
	store, err := database.OpenMemory()
	require.NoError(t, err)
	defer store.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ds, err := LoadDataset(writeDataset(t, testDataset))
	require.NoError(t, err)
	require.NoError(t, Run(store, ds, logger))
	require.NoError(t, Run(store, ds, logger))

	// A second run replaces rather than duplicates.
	total, err := store.CountProperties()
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)
}
