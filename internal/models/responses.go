package models

import "time"

// Derived, request-scoped response shapes. These are computed fresh on
// every request and never persisted; identical inputs must always
// serialize to identical JSON.

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RegionBounds is the bounding box of a region's recorded sales.
type RegionBounds struct {
	SouthWest Coordinates `json:"southWest"`
	NorthEast Coordinates `json:"northEast"`
}

// RegionSummary is one entry of the regions listing.
type RegionSummary struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	AveragePrice int       `json:"averagePrice"`
	PriceChange  float64   `json:"priceChange"`
	SalesCount   int       `json:"salesCount"`
	Description  string    `json:"description"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// TypePrice carries the average price for one property type.
type TypePrice struct {
	Price int `json:"price"`
}

// PropertyTypePrices is the fixed four-type price breakdown used by the
// region detail response.
type PropertyTypePrices struct {
	Detached TypePrice `json:"detached"`
	Semi     TypePrice `json:"semi"`
	Terraced TypePrice `json:"terraced"`
	Flat     TypePrice `json:"flat"`
}

// RegionDetail extends RegionSummary with the per-type breakdown.
type RegionDetail struct {
	RegionSummary
	PropertyTypes PropertyTypePrices `json:"propertyTypes"`
	Bounds        *RegionBounds      `json:"bounds,omitempty"`
}

// TopPerformer names the region with the strongest year-over-year
// price change for the latest reported month.
type TopPerformer struct {
	Name   string  `json:"name"`
	Region string  `json:"region"`
	Change float64 `json:"change"`
}

// AveragePriceByType holds nationally pooled per-type averages.
type AveragePriceByType struct {
	Detached int `json:"detached"`
	Semi     int `json:"semi"`
	Terraced int `json:"terraced"`
	Flat     int `json:"flat"`
}

// RegionalPerformance is one region's slice of the national breakdown.
type RegionalPerformance struct {
	AveragePrice int     `json:"averagePrice"`
	Change       float64 `json:"change"`
}

// NationalSummary is the national statistics payload.
type NationalSummary struct {
	AveragePrice       int                            `json:"averagePrice"`
	PriceChangeYoY     float64                        `json:"priceChangeYoY"`
	PriceChangeMoM     float64                        `json:"priceChangeMoM"`
	TotalSales         int                            `json:"totalSales"`
	LastUpdated        time.Time                      `json:"lastUpdated"`
	TopPerformer       TopPerformer                   `json:"topPerformer"`
	DataSource         string                         `json:"dataSource"`
	MarketTrend        string                         `json:"marketTrend"`
	AveragePriceByType AveragePriceByType             `json:"averagePriceByType"`
	RegionalBreakdown  map[string]RegionalPerformance `json:"regionalBreakdown"`
}

// TrendingEntry is one ranked row of the trending response.
type TrendingEntry struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Region       string      `json:"region"`
	PriceChange  float64     `json:"priceChange"`
	AveragePrice int         `json:"averagePrice"`
	Reason       string      `json:"reason"`
	SalesVolume  int         `json:"salesVolume"`
	MarketCap    string      `json:"marketCap"`
	Trend        string      `json:"trend"`
	Coordinates  Coordinates `json:"coordinates"`
}

// PropertyResult is a sale row as returned by search endpoints.
type PropertyResult struct {
	ID           uint         `json:"id"`
	Postcode     string       `json:"postcode"`
	Price        int          `json:"price"`
	PropertyType PropertyType `json:"propertyType"`
	DateSold     time.Time    `json:"dateSold"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	Region       string       `json:"region"`
}

// SearchStatistics summarizes the prices of a search result set.
type SearchStatistics struct {
	TotalFound   int `json:"totalFound"`
	AveragePrice int `json:"averagePrice"`
	MinPrice     int `json:"minPrice"`
	MaxPrice     int `json:"maxPrice"`
}

// RegionInfo identifies the region a search resolved to, if any.
type RegionInfo struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	PropertyCount int    `json:"propertyCount"`
}

// SearchData is the payload of the main search endpoint.
type SearchData struct {
	Properties []PropertyResult `json:"properties"`
	Statistics SearchStatistics `json:"statistics"`
	Region     *RegionInfo      `json:"region,omitempty"`
}

// SearchResult is one suggestion entry: either a region match or a
// postcode match, discriminated by Type.
type SearchResult struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Description  string       `json:"description"`
	AveragePrice int          `json:"averagePrice,omitempty"`
	PriceChange  float64      `json:"priceChange,omitempty"`
	SalesCount   int          `json:"salesCount,omitempty"`
	Price        int          `json:"price,omitempty"`
	PropertyType PropertyType `json:"propertyType,omitempty"`
	Region       string       `json:"region,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

const (
	SearchResultRegion   = "region"
	SearchResultPostcode = "postcode"
)
