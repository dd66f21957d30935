package stats

import (
	"math"
	"sort"

	"propwatch/server/internal/models"
)

// TypeStats is the per-type slice of a Summary.
type TypeStats struct {
	Count        int `json:"count"`
	AveragePrice int `json:"averagePrice"`
}

// Breakdown always carries the four canonical property types; types
// absent from the input are present with zero values.
type Breakdown struct {
	Detached TypeStats `json:"detached"`
	Semi     TypeStats `json:"semi"`
	Terraced TypeStats `json:"terraced"`
	Flat     TypeStats `json:"flat"`
}

// Summary is the price summary of a set of sale records.
type Summary struct {
	Average int       `json:"average"`
	Median  int       `json:"median"`
	Min     int       `json:"min"`
	Max     int       `json:"max"`
	Count   int       `json:"count"`
	ByType  Breakdown `json:"byType"`
}

// Aggregate computes the price summary of an already-filtered set of
// properties. It is total: an empty input yields an all-zero summary,
// never a division by zero.
//
// The median is the upper median, the element at index floor(n/2) of
// the ascending price list. Consumers depend on that exact tie-break
// for even-sized sets.
func Aggregate(properties []models.Property) Summary {
	if len(properties) == 0 {
		return Summary{}
	}

	prices := make([]int, len(properties))
	sum := 0
	for i, p := range properties {
		prices[i] = p.Price
		sum += p.Price
	}
	sort.Ints(prices)

	return Summary{
		Average: roundedMean(sum, len(prices)),
		Median:  prices[len(prices)/2],
		Min:     prices[0],
		Max:     prices[len(prices)-1],
		Count:   len(prices),
		ByType:  aggregateByType(properties),
	}
}

func aggregateByType(properties []models.Property) Breakdown {
	sums := make(map[models.PropertyType]int, len(models.AllPropertyTypes))
	counts := make(map[models.PropertyType]int, len(models.AllPropertyTypes))
	for _, p := range properties {
		sums[p.PropertyType] += p.Price
		counts[p.PropertyType]++
	}

	typeStats := func(t models.PropertyType) TypeStats {
		if counts[t] == 0 {
			return TypeStats{}
		}
		return TypeStats{
			Count:        counts[t],
			AveragePrice: roundedMean(sums[t], counts[t]),
		}
	}

	return Breakdown{
		Detached: typeStats(models.TypeDetached),
		Semi:     typeStats(models.TypeSemiDetached),
		Terraced: typeStats(models.TypeTerraced),
		Flat:     typeStats(models.TypeFlat),
	}
}

func roundedMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
