package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"propwatch/server/config"
	"propwatch/server/internal/models"
	"propwatch/server/internal/stats"
)

// MinQueryLength is the shortest trimmed query the resolver accepts.
const MinQueryLength = 2

// DefaultLimit caps the main search when the caller supplies none;
// DefaultSuggestLimit caps the combined suggestion variant.
const (
	DefaultLimit        = 20
	DefaultSuggestLimit = 8

	suggestRegionTake   = 3
	suggestPostcodeTake = 5
)

// Outcome tags how a search resolved. Degraded means an underlying
// store error was masked with a well-formed placeholder response; the
// tag makes that contract explicit instead of silent.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotFound Outcome = "not_found"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeDegraded Outcome = "degraded"
)

// Store is the record-store surface the resolver needs.
type Store interface {
	PropertiesByPostcode(term string, limit int) ([]models.Property, error)
	RegionByName(name string) (*models.Region, error)
	PropertiesByRegion(regionID uint, limit int) ([]models.Property, error)
	SearchRegions(term string, limit int) ([]models.Region, error)
	LatestStatsForRegion(regionID uint) (*models.RegionMonthlyStats, error)
	CountPropertiesInRegion(regionID uint) (int64, error)
}

// Result is the outcome of the main free-text search.
type Result struct {
	Outcome Outcome
	Query   string
	Data    models.SearchData
}

// SuggestResult is the outcome of the combined suggestion search.
type SuggestResult struct {
	Outcome Outcome
	Query   string
	Results []models.SearchResult
}

// Resolver turns free-text queries into property result sets. It never
// returns an error: store failures degrade into placeholder responses.
type Resolver struct {
	store  Store
	index  *Index
	logger *logrus.Logger
}

// NewResolver builds a resolver. index may be nil; it only accelerates
// suggestion queries when configured.
func NewResolver(store Store, index *Index, logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.New()
	}
	return &Resolver{store: store, index: index, logger: logger}
}

// Resolve runs the two-step strategy: postcode substring match first,
// then alias-assisted region name match. It stops at the first
// non-empty result set.
func (r *Resolver) Resolve(query string, limit int) Result {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return Result{Outcome: OutcomeInvalid, Query: trimmed}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	properties, err := r.store.PropertiesByPostcode(trimmed, limit)
	if err != nil {
		r.logger.WithError(err).Error("Postcode search failed")
		return Result{Outcome: OutcomeDegraded, Query: trimmed, Data: emptyData()}
	}

	var regionInfo *models.RegionInfo
	if len(properties) == 0 {
		regionName := config.CanonicalRegion(trimmed)
		region, err := r.store.RegionByName(regionName)
		if err != nil {
			r.logger.WithError(err).Error("Region search failed")
			return Result{Outcome: OutcomeDegraded, Query: trimmed, Data: emptyData()}
		}
		if region != nil {
			properties, err = r.store.PropertiesByRegion(region.ID, limit)
			if err != nil {
				r.logger.WithError(err).Error("Region property load failed")
				return Result{Outcome: OutcomeDegraded, Query: trimmed, Data: emptyData()}
			}
			regionInfo = &models.RegionInfo{
				Name:          region.Name,
				Slug:          region.Slug,
				PropertyCount: len(properties),
			}
		}
	}

	summary := stats.Aggregate(properties)
	data := models.SearchData{
		Properties: mapProperties(properties),
		Statistics: models.SearchStatistics{
			TotalFound:   summary.Count,
			AveragePrice: summary.Average,
			MinPrice:     summary.Min,
			MaxPrice:     summary.Max,
		},
		Region: regionInfo,
	}

	outcome := OutcomeOK
	if len(properties) == 0 {
		outcome = OutcomeNotFound
	}
	return Result{Outcome: outcome, Query: trimmed, Data: data}
}

// Suggest runs the combined variant: up to three region matches and
// five postcode matches, ranked so that names starting with the term
// sort before names merely containing it. Store failures produce a
// single labeled placeholder entry instead of an error.
func (r *Resolver) Suggest(query string, limit int) SuggestResult {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return SuggestResult{Outcome: OutcomeInvalid, Query: trimmed, Results: []models.SearchResult{}}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	term := strings.ToLower(trimmed)

	regionResults, err := r.regionSuggestions(term)
	if err != nil {
		r.logger.WithError(err).Error("Region suggestions failed")
		return degradedSuggestions(trimmed)
	}

	postcodeResults, err := r.postcodeSuggestions(term)
	if err != nil {
		r.logger.WithError(err).Error("Postcode suggestions failed")
		return degradedSuggestions(trimmed)
	}

	results := append(regionResults, postcodeResults...)

	// Prefix matches outrank substring matches; everything else keeps
	// its original order.
	sort.SliceStable(results, func(i, j int) bool {
		iPrefix := strings.HasPrefix(strings.ToLower(results[i].Name), term)
		jPrefix := strings.HasPrefix(strings.ToLower(results[j].Name), term)
		return iPrefix && !jPrefix
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return SuggestResult{Outcome: OutcomeOK, Query: trimmed, Results: results}
}

func (r *Resolver) regionSuggestions(term string) ([]models.SearchResult, error) {
	regions, err := r.store.SearchRegions(term, suggestRegionTake)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(regions))
	for _, region := range regions {
		count, err := r.store.CountPropertiesInRegion(region.ID)
		if err != nil {
			return nil, err
		}
		latest, err := r.store.LatestStatsForRegion(region.ID)
		if err != nil {
			return nil, err
		}

		result := models.SearchResult{
			ID:          fmt.Sprintf("region-%d", region.ID),
			Name:        region.Name,
			Type:        models.SearchResultRegion,
			Description: fmt.Sprintf("%d properties • Region", count),
			SalesCount:  int(count),
		}
		if latest != nil {
			result.AveragePrice = latest.AveragePrice
			result.PriceChange = latest.PriceChangeYoY
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Resolver) postcodeSuggestions(term string) ([]models.SearchResult, error) {
	if r.index != nil {
		results, err := r.index.SearchPostcodes(term, suggestPostcodeTake)
		if err == nil {
			return results, nil
		}
		r.logger.WithError(err).Warn("Search index unavailable, falling back to store")
	}

	properties, err := r.store.PropertiesByPostcode(term, suggestPostcodeTake)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(properties))
	for _, p := range properties {
		results = append(results, postcodeResult(p))
	}
	return results, nil
}

func postcodeResult(p models.Property) models.SearchResult {
	regionName := ""
	if p.Region != nil {
		regionName = p.Region.Name
	}
	result := models.SearchResult{
		ID:           fmt.Sprintf("property-%d", p.ID),
		Name:         p.Postcode,
		Type:         models.SearchResultPostcode,
		Description:  fmt.Sprintf("%s • %s", p.PropertyType, regionName),
		Price:        p.Price,
		PropertyType: p.PropertyType,
		Region:       regionName,
	}
	if p.Latitude != nil && p.Longitude != nil {
		result.Coordinates = &models.Coordinates{Lat: *p.Latitude, Lng: *p.Longitude}
	}
	return result
}

// degradedSuggestions is the masking-on-error response: a well-formed
// success payload with one clearly labeled fallback entry.
func degradedSuggestions(query string) SuggestResult {
	return SuggestResult{
		Outcome: OutcomeDegraded,
		Query:   query,
		Results: []models.SearchResult{{
			ID:          "error-fallback",
			Name:        query,
			Type:        models.SearchResultRegion,
			Description: "Search temporarily unavailable",
		}},
	}
}

func emptyData() models.SearchData {
	return models.SearchData{Properties: []models.PropertyResult{}}
}

func mapProperties(properties []models.Property) []models.PropertyResult {
	results := make([]models.PropertyResult, 0, len(properties))
	for _, p := range properties {
		regionName := ""
		if p.Region != nil {
			regionName = p.Region.Name
		}
		results = append(results, models.PropertyResult{
			ID:           p.ID,
			Postcode:     p.Postcode,
			Price:        p.Price,
			PropertyType: p.PropertyType,
			DateSold:     p.DateSold,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			Region:       regionName,
		})
	}
	return results
}
