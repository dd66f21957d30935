package trending

import (
	"sort"
	"strings"

	"propwatch/server/config"
	"propwatch/server/internal/models"
)

// DefaultLimit caps the trending list when the caller supplies none.
const DefaultLimit = 5

// Filters narrows and caps the ranked output.
type Filters struct {
	Limit     int
	MinChange float64
	Region    string
}

// Rank orders the latest month's stats rows by year-over-year price
// change, strongest first, applies the filters, and annotates each
// survivor with its descriptive metadata.
//
// The input is expected to already be scoped to the single latest
// month across all regions. Equal changes keep their input order; no
// secondary sort key is defined.
func Rank(rows []models.RegionMonthlyStats, filters Filters) []models.TrendingEntry {
	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	filtered := make([]models.RegionMonthlyStats, 0, len(rows))
	needle := strings.ToLower(strings.TrimSpace(filters.Region))
	for _, row := range rows {
		if row.PriceChangeYoY < filters.MinChange {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(regionName(row)), needle) {
			continue
		}
		filtered = append(filtered, row)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PriceChangeYoY > filtered[j].PriceChangeYoY
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	entries := make([]models.TrendingEntry, 0, len(filtered))
	for _, row := range filtered {
		name := regionName(row)
		centroid := config.CityCentroid(name)
		entries = append(entries, models.TrendingEntry{
			ID:           row.ID,
			Name:         name,
			Region:       name,
			PriceChange:  row.PriceChangeYoY,
			AveragePrice: row.AveragePrice,
			Reason:       Reason(name, row.PriceChangeYoY),
			SalesVolume:  row.SalesCount,
			MarketCap:    MarketCap(row.AveragePrice),
			Trend:        TrendType(row.PriceChangeYoY),
			Coordinates: models.Coordinates{
				Lat: centroid.Lat(),
				Lng: centroid.Lon(),
			},
		})
	}
	return entries
}

func regionName(row models.RegionMonthlyStats) string {
	if row.Region == nil {
		return ""
	}
	return row.Region.Name
}

// Reason picks the fixed per-region reason when one exists, otherwise
// buckets the price change into a generic reason.
func Reason(regionName string, priceChange float64) string {
	if reason := config.TrendingReason(regionName); reason != "" {
		return reason
	}
	switch {
	case priceChange > 15:
		return "Exceptional market conditions"
	case priceChange > 10:
		return "Strong local demand"
	case priceChange > 5:
		return "Steady growth market"
	default:
		return "Market adjustment"
	}
}

// MarketCap buckets an average price into small/medium/large.
func MarketCap(averagePrice int) string {
	switch {
	case averagePrice > 500000:
		return "large"
	case averagePrice > 300000:
		return "medium"
	default:
		return "small"
	}
}

// TrendType buckets a year-over-year change into a trend label.
func TrendType(priceChange float64) string {
	switch {
	case priceChange > 15:
		return "strongly_increasing"
	case priceChange > 5:
		return "increasing"
	case priceChange > -2:
		return "stable"
	default:
		return "decreasing"
	}
}
