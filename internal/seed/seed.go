package seed

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"propwatch/server/internal/database"
	"propwatch/server/internal/models"
)

// Dataset describes a seedable market, loaded from a yaml file.
type Dataset struct {
	// Months of monthly stats to generate per region
	Months int `yaml:"months"`

	// Days back from now that generated sales are spread over
	SaleWindowDays int `yaml:"sale_window_days"`

	// Total sales to distribute across regions by market share
	TotalProperties int `yaml:"total_properties"`

	Regions []RegionSeed `yaml:"regions"`
}

// RegionSeed is one region's parameters.
type RegionSeed struct {
	Name            string   `yaml:"name"`
	Slug            string   `yaml:"slug"`
	PostcodeAreas   []string `yaml:"postcode_areas"`
	Lat             float64  `yaml:"lat"`
	Lng             float64  `yaml:"lng"`
	MinPrice        int      `yaml:"min_price"`
	MaxPrice        int      `yaml:"max_price"`
	AnnualGrowthPct float64  `yaml:"annual_growth_pct"`
	MarketShare     float64  `yaml:"market_share"`
}

var typeMultipliers = map[models.PropertyType]float64{
	models.TypeDetached:     1.5,
	models.TypeSemiDetached: 1.2,
	models.TypeTerraced:     1.0,
	models.TypeFlat:         0.7,
}

// LoadDataset reads and validates a yaml dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	if len(ds.Regions) == 0 {
		return nil, fmt.Errorf("dataset has no regions")
	}
	if ds.Months <= 0 {
		ds.Months = 12
	}
	if ds.SaleWindowDays <= 0 {
		ds.SaleWindowDays = 7
	}
	if ds.TotalProperties <= 0 {
		ds.TotalProperties = 1000
	}
	return &ds, nil
}

// Run writes the dataset through the store: regions, monthly stats,
// and generated sale rows. The generator is deterministically seeded
// so repeated runs against a fresh store produce the same data.
func Run(store *database.Store, ds *Dataset, logger *logrus.Logger) error {
	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()

	if err := store.ClearProperties(); err != nil {
		return err
	}

	for _, rs := range ds.Regions {
		region := &models.Region{Name: rs.Name, Slug: rs.Slug}
		if err := store.UpsertRegion(region); err != nil {
			return err
		}

		statsRows := monthlyStats(rs, ds.Months, now, rng)
		if err := store.ReplaceMonthlyStats(region.ID, statsRows); err != nil {
			return err
		}

		count := int(math.Round(float64(ds.TotalProperties) * rs.MarketShare))
		properties := generateProperties(rs, region.ID, count, ds.SaleWindowDays, now, rng)
		if err := store.InsertProperties(properties); err != nil {
			return err
		}

		logger.Infof("Seeded region %s: %d monthly stats, %d sales", rs.Name, len(statsRows), len(properties))
	}

	return nil
}

// monthlyStats walks average prices back from the region's midpoint at
// its annual growth rate, newest month first in time but generated
// oldest-first so MoM deltas line up.
func monthlyStats(rs RegionSeed, months int, now time.Time, rng *rand.Rand) []models.RegionMonthlyStats {
	latest := firstOfMonth(now)
	midPrice := float64(rs.MinPrice+rs.MaxPrice) / 2
	monthlyGrowth := rs.AnnualGrowthPct / 12

	rows := make([]models.RegionMonthlyStats, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := latest.AddDate(0, -i, 0)
		// Price i months ago, discounted by the growth rate.
		price := midPrice / math.Pow(1+monthlyGrowth/100, float64(i))
		jitter := 1 + (rng.Float64()-0.5)*0.02

		avg := int(math.Round(price * jitter))
		rows = append(rows, models.RegionMonthlyStats{
			Month:          month,
			AveragePrice:   avg,
			MedianPrice:    int(math.Round(float64(avg) * 0.93)),
			SalesCount:     50 + rng.Intn(200),
			PriceChangeYoY: round1(rs.AnnualGrowthPct + (rng.Float64()-0.5)*2),
			PriceChangeMoM: round1(monthlyGrowth + (rng.Float64()-0.5)*0.6),
			DetachedPrice:  int(math.Round(float64(avg) * typeMultipliers[models.TypeDetached])),
			SemiPrice:      int(math.Round(float64(avg) * typeMultipliers[models.TypeSemiDetached])),
			TerracedPrice:  avg,
			FlatPrice:      int(math.Round(float64(avg) * typeMultipliers[models.TypeFlat])),
		})
	}
	return rows
}

func generateProperties(rs RegionSeed, regionID uint, count, windowDays int, now time.Time, rng *rand.Rand) []models.Property {
	properties := make([]models.Property, 0, count)
	for i := 0; i < count; i++ {
		propertyType := models.AllPropertyTypes[rng.Intn(len(models.AllPropertyTypes))]
		base := float64(rs.MinPrice) + rng.Float64()*float64(rs.MaxPrice-rs.MinPrice)
		price := int(math.Round(base * typeMultipliers[propertyType]))

		soldAgo := time.Duration(rng.Int63n(int64(windowDays) * 24 * int64(time.Hour)))
		lat := rs.Lat + (rng.Float64()-0.5)*0.08
		lng := rs.Lng + (rng.Float64()-0.5)*0.08

		properties = append(properties, models.Property{
			Postcode:     postcode(rs, i, rng),
			Price:        price,
			PropertyType: propertyType,
			DateSold:     now.Add(-soldAgo),
			RegionID:     regionID,
			Latitude:     &lat,
			Longitude:    &lng,
		})
	}
	return properties
}

// postcode builds a UK-style code from the region's area list, e.g.
// "SW1 4QX".
func postcode(rs RegionSeed, index int, rng *rand.Rand) string {
	area := "XX1"
	if len(rs.PostcodeAreas) > 0 {
		area = rs.PostcodeAreas[index%len(rs.PostcodeAreas)]
	}
	return fmt.Sprintf("%s %d%c%c",
		area,
		1+rng.Intn(9),
		'A'+rune(rng.Intn(26)),
		'A'+rune(rng.Intn(26)),
	)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
