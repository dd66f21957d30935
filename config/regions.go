package config

import (
	"strings"

	"github.com/paulmach/orb"
)

// EnglandCentroid is the fallback coordinate for region names without
// a known city centroid.
var EnglandCentroid = orb.Point{-1.1743, 52.3555}

// cityCentroids maps lower-cased city/region names to their centroid.
// Points are orb {lng, lat}.
var cityCentroids = map[string]orb.Point{
	"london":     {-0.1278, 51.5074},
	"manchester": {-2.2426, 53.4808},
	"birmingham": {-1.8904, 52.4862},
	"bristol":    {-2.5879, 51.4545},
	"leeds":      {-1.5491, 53.8008},
	"liverpool":  {-2.9916, 53.4084},
}

// regionAliases resolves well-known city names to the canonical region
// that contains them. Closed set; unknown terms pass through unchanged.
var regionAliases = map[string]string{
	"manchester": "North West",
	"birmingham": "West Midlands",
	"leeds":      "Yorkshire and the Humber",
	"bristol":    "South West",
	"liverpool":  "North West",
	"london":     "London",
}

// trendingReasons maps lower-cased region names to a fixed descriptive
// reason shown in the trending listing.
var trendingReasons = map[string]string{
	"london":     "Financial sector growth and limited supply",
	"manchester": "Tech sector expansion and urban regeneration",
	"birmingham": "HS2 infrastructure development",
	"bristol":    "Strong job market and university presence",
	"leeds":      "Northern Powerhouse investment",
	"liverpool":  "Cultural quarter development",
}

// CanonicalRegion maps a search term to a region name via the alias
// table, returning the term itself when no alias matches.
func CanonicalRegion(term string) string {
	if name, ok := regionAliases[strings.ToLower(strings.TrimSpace(term))]; ok {
		return name
	}
	return term
}

// CityCentroid returns the centroid for a known city or region name,
// falling back to the England centroid.
func CityCentroid(name string) orb.Point {
	if p, ok := cityCentroids[strings.ToLower(name)]; ok {
		return p
	}
	return EnglandCentroid
}

// KnownCity reports whether a centroid is recorded for the name.
func KnownCity(name string) bool {
	_, ok := cityCentroids[strings.ToLower(name)]
	return ok
}

// CityCentroids returns the full centroid table for distance scans.
func CityCentroids() map[string]orb.Point {
	return cityCentroids
}

// TrendingReason returns the fixed reason for a region, or "" when the
// region has no entry.
func TrendingReason(regionName string) string {
	return trendingReasons[strings.ToLower(regionName)]
}
