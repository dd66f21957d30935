package trending

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"propwatch/server/internal/models"
)

func statRow(id uint, name string, change float64, avgPrice, sales int) models.RegionMonthlyStats {
	r := models.Region{ID: id, Name: name}
	return models.RegionMonthlyStats{
		ID:             id,
		RegionID:       id,
		PriceChangeYoY: change,
		AveragePrice:   avgPrice,
		SalesCount:     sales,
		Region:         &r,
	}
}

func TestRank_FilterAndStableTieBreak(t *testing.T) {
	rows := []models.RegionMonthlyStats{
		statRow(1, "A", 12, 200000, 10),
		statRow(2, "B", 12, 200000, 10),
		statRow(3, "C", 5, 200000, 10),
	}

	entries := Rank(rows, Filters{MinChange: 10, Limit: 5})

	assert.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, "B", entries[1].Name)
}

func TestRank_SortsDescending(t *testing.T) {
	rows := []models.RegionMonthlyStats{
		statRow(1, "Slow", 2, 100000, 5),
		statRow(2, "Fast", 14, 100000, 5),
		statRow(3, "Mid", 8, 100000, 5),
	}

	entries := Rank(rows, Filters{})

	assert.Equal(t, []string{"Fast", "Mid", "Slow"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
}

func TestRank_DefaultLimit(t *testing.T) {
	rows := make([]models.RegionMonthlyStats, 0, 8)
	for i := uint(1); i <= 8; i++ {
		rows = append(rows, statRow(i, "R", float64(i), 100000, 5))
	}

	entries := Rank(rows, Filters{})

	assert.Len(t, entries, DefaultLimit)
}

func TestRank_RegionNameFilter(t *testing.T) {
	rows := []models.RegionMonthlyStats{
		statRow(1, "North West", 9, 100000, 5),
		statRow(2, "North East", 11, 100000, 5),
		statRow(3, "London", 8, 100000, 5),
	}

	entries := Rank(rows, Filters{Region: "north"})

	assert.Len(t, entries, 2)
	assert.Equal(t, "North East", entries[0].Name)
	assert.Equal(t, "North West", entries[1].Name)
}

func TestRank_EmptyInput(t *testing.T) {
	entries := Rank(nil, Filters{})
	assert.Empty(t, entries)
}

func TestRank_Annotations(t *testing.T) {
	rows := []models.RegionMonthlyStats{
		statRow(1, "London", 16, 687000, 2847),
	}

	entries := Rank(rows, Filters{})
	entry := entries[0]

	assert.Equal(t, "Financial sector growth and limited supply", entry.Reason)
	assert.Equal(t, "large", entry.MarketCap)
	assert.Equal(t, "strongly_increasing", entry.Trend)
	assert.InDelta(t, 51.5074, entry.Coordinates.Lat, 0.0001)
	assert.InDelta(t, -0.1278, entry.Coordinates.Lng, 0.0001)
}

func TestRank_UnknownRegionFallsBackToEnglandCentroid(t *testing.T) {
	rows := []models.RegionMonthlyStats{
		statRow(1, "East of England", 3, 290000, 40),
	}

	entry := Rank(rows, Filters{})[0]

	assert.InDelta(t, 52.3555, entry.Coordinates.Lat, 0.0001)
	assert.InDelta(t, -1.1743, entry.Coordinates.Lng, 0.0001)
}

func TestReason_Thresholds(t *testing.T) {
	tests := []struct {
		change float64
		reason string
	}{
		{16, "Exceptional market conditions"},
		{12, "Strong local demand"},
		{7, "Steady growth market"},
		{3, "Market adjustment"},
		{-4, "Market adjustment"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.reason, Reason("East Midlands", tt.change))
	}
}

func TestMarketCap_Thresholds(t *testing.T) {
	assert.Equal(t, "large", MarketCap(500001))
	assert.Equal(t, "medium", MarketCap(500000))
	assert.Equal(t, "medium", MarketCap(300001))
	assert.Equal(t, "small", MarketCap(300000))
}

func TestTrendType_Thresholds(t *testing.T) {
	assert.Equal(t, "strongly_increasing", TrendType(15.1))
	assert.Equal(t, "increasing", TrendType(15))
	assert.Equal(t, "increasing", TrendType(5.1))
	assert.Equal(t, "stable", TrendType(5))
	assert.Equal(t, "stable", TrendType(-1.9))
	assert.Equal(t, "decreasing", TrendType(-2))
}
