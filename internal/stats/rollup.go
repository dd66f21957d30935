package stats

import (
	"fmt"
	"math"
	"time"

	"propwatch/server/internal/models"
)

// nationalDataSource labels where the sale records come from.
const nationalDataSource = "HM Land Registry"

// SummarizeRegion builds the listing summary for one region. A region
// without any monthly stats row still appears, with zero-valued price
// fields and the region's own updatedAt as the freshness marker.
func SummarizeRegion(region models.Region, latest *models.RegionMonthlyStats, salesCount int) models.RegionSummary {
	summary := models.RegionSummary{
		ID:          region.ID,
		Name:        region.Name,
		Slug:        region.Slug,
		SalesCount:  salesCount,
		Description: fmt.Sprintf("%d properties sold", salesCount),
		LastUpdated: region.UpdatedAt,
	}
	if latest != nil {
		summary.AveragePrice = latest.AveragePrice
		summary.PriceChange = latest.PriceChangeYoY
		summary.LastUpdated = latest.Month
	}
	return summary
}

// DetailDescription is the longer description used by the region
// detail response.
func DetailDescription(salesCount int) string {
	return fmt.Sprintf("Major UK region with %d recorded sales", salesCount)
}

// SummarizeNational rolls per-region summaries up into the national
// payload.
//
// Two aggregation policies coexist here on purpose: the national
// average price is the unweighted mean of per-region average prices
// (biased toward small regions), while the per-type averages are
// pooled over all properties nationally. Consumers depend on the
// exact current numbers of both.
func SummarizeNational(
	summaries []models.RegionSummary,
	latestMonthRows []models.RegionMonthlyStats,
	totalSales int64,
	pooledByType []models.TypeAggregate,
	lastUpdated time.Time,
) models.NationalSummary {
	national := models.NationalSummary{
		AveragePrice:       regionMeanPrice(summaries),
		PriceChangeYoY:     meanChange(latestMonthRows, func(r models.RegionMonthlyStats) float64 { return r.PriceChangeYoY }),
		PriceChangeMoM:     meanChange(latestMonthRows, func(r models.RegionMonthlyStats) float64 { return r.PriceChangeMoM }),
		TotalSales:         int(totalSales),
		LastUpdated:        lastUpdated,
		TopPerformer:       topPerformer(latestMonthRows),
		DataSource:         nationalDataSource,
		AveragePriceByType: pooledTypeAverages(pooledByType),
		RegionalBreakdown:  make(map[string]models.RegionalPerformance, len(summaries)),
	}

	national.MarketTrend = "decreasing"
	if national.PriceChangeYoY > 0 {
		national.MarketTrend = "increasing"
	}

	for _, s := range summaries {
		national.RegionalBreakdown[s.Slug] = models.RegionalPerformance{
			AveragePrice: s.AveragePrice,
			Change:       s.PriceChange,
		}
	}

	return national
}

// regionMeanPrice is the unweighted mean of per-region average prices.
func regionMeanPrice(summaries []models.RegionSummary) int {
	if len(summaries) == 0 {
		return 0
	}
	sum := 0
	for _, s := range summaries {
		sum += s.AveragePrice
	}
	return int(math.Round(float64(sum) / float64(len(summaries))))
}

func meanChange(rows []models.RegionMonthlyStats, value func(models.RegionMonthlyStats) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rows {
		sum += value(r)
	}
	return sum / float64(len(rows))
}

// topPerformer picks the row with the maximum year-over-year change.
// Ties keep the first occurrence in input order.
func topPerformer(rows []models.RegionMonthlyStats) models.TopPerformer {
	top := models.TopPerformer{Name: "Unknown", Region: "UK"}
	found := false
	for _, r := range rows {
		if !found || r.PriceChangeYoY > top.Change {
			name := "Unknown"
			if r.Region != nil {
				name = r.Region.Name
			}
			top.Name = name
			top.Change = r.PriceChangeYoY
			found = true
		}
	}
	return top
}

func pooledTypeAverages(rows []models.TypeAggregate) models.AveragePriceByType {
	averages := models.AveragePriceByType{}
	for _, r := range rows {
		price := int(math.Round(r.AveragePrice))
		switch r.PropertyType {
		case models.TypeDetached:
			averages.Detached = price
		case models.TypeSemiDetached:
			averages.Semi = price
		case models.TypeTerraced:
			averages.Terraced = price
		case models.TypeFlat:
			averages.Flat = price
		}
	}
	return averages
}

// TypePrices maps a group-by result onto the fixed four-type shape of
// the region detail response.
func TypePrices(rows []models.TypeAggregate) models.PropertyTypePrices {
	averages := pooledTypeAverages(rows)
	return models.PropertyTypePrices{
		Detached: models.TypePrice{Price: averages.Detached},
		Semi:     models.TypePrice{Price: averages.Semi},
		Terraced: models.TypePrice{Price: averages.Terraced},
		Flat:     models.TypePrice{Price: averages.Flat},
	}
}
