package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"propwatch/server/internal/models"
)

// MockStore is a mock implementation of the Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) PropertiesByPostcode(term string, limit int) ([]models.Property, error) {
	args := m.Called(term, limit)
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockStore) RegionByName(name string) (*models.Region, error) {
	args := m.Called(name)
	region, _ := args.Get(0).(*models.Region)
	return region, args.Error(1)
}

func (m *MockStore) PropertiesByRegion(regionID uint, limit int) ([]models.Property, error) {
	args := m.Called(regionID, limit)
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockStore) SearchRegions(term string, limit int) ([]models.Region, error) {
	args := m.Called(term, limit)
	return args.Get(0).([]models.Region), args.Error(1)
}

func (m *MockStore) LatestStatsForRegion(regionID uint) (*models.RegionMonthlyStats, error) {
	args := m.Called(regionID)
	row, _ := args.Get(0).(*models.RegionMonthlyStats)
	return row, args.Error(1)
}

func (m *MockStore) CountPropertiesInRegion(regionID uint) (int64, error) {
	args := m.Called(regionID)
	return args.Get(0).(int64), args.Error(1)
}

func northWest() *models.Region {
	return &models.Region{ID: 7, Name: "North West", Slug: "north-west"}
}

func TestResolve_QueryTooShort(t *testing.T) {
	resolver := NewResolver(&MockStore{}, nil, nil)

	for _, q := range []string{"", "a", " a ", "  "} {
		result := resolver.Resolve(q, 10)
		assert.Equal(t, OutcomeInvalid, result.Outcome, "query %q", q)
	}
}

func TestResolve_PostcodeMatchFirst(t *testing.T) {
	store := &MockStore{}
	region := northWest()
	store.On("PropertiesByPostcode", "M1 4QX", 10).Return([]models.Property{
		{ID: 1, Postcode: "M1 4QX", Price: 250000, PropertyType: models.TypeFlat, Region: region},
		{ID: 2, Postcode: "M1 4QY", Price: 350000, PropertyType: models.TypeTerraced, Region: region},
	}, nil)

	result := resolverFor(store).Resolve("M1 4QX", 10)

	assert.Equal(t, OutcomeOK, result.Outcome)
	assert.Len(t, result.Data.Properties, 2)
	assert.Equal(t, 2, result.Data.Statistics.TotalFound)
	assert.Equal(t, 300000, result.Data.Statistics.AveragePrice)
	assert.Equal(t, 250000, result.Data.Statistics.MinPrice)
	assert.Equal(t, 350000, result.Data.Statistics.MaxPrice)
	assert.Nil(t, result.Data.Region)
	// Region pass never runs when postcodes match.
	store.AssertNotCalled(t, "RegionByName", mock.Anything)
}

func TestResolve_AliasFallsBackToRegion(t *testing.T) {
	store := &MockStore{}
	region := northWest()
	store.On("PropertiesByPostcode", "manchester", 10).Return([]models.Property{}, nil)
	store.On("RegionByName", "North West").Return(region, nil)
	store.On("PropertiesByRegion", uint(7), 10).Return([]models.Property{
		{ID: 3, Postcode: "M2 1AB", Price: 180000, PropertyType: models.TypeSemiDetached, Region: region},
	}, nil)

	result := resolverFor(store).Resolve("manchester", 10)

	assert.Equal(t, OutcomeOK, result.Outcome)
	assert.Len(t, result.Data.Properties, 1)
	assert.NotNil(t, result.Data.Region)
	assert.Equal(t, "North West", result.Data.Region.Name)
	assert.Equal(t, 1, result.Data.Region.PropertyCount)
}

func TestResolve_NothingMatches(t *testing.T) {
	store := &MockStore{}
	store.On("PropertiesByPostcode", "atlantis", 10).Return([]models.Property{}, nil)
	store.On("RegionByName", "atlantis").Return(nil, nil)

	result := resolverFor(store).Resolve("atlantis", 10)

	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Empty(t, result.Data.Properties)
	assert.Equal(t, models.SearchStatistics{}, result.Data.Statistics)
}

func TestResolve_StoreErrorDegrades(t *testing.T) {
	store := &MockStore{}
	store.On("PropertiesByPostcode", "SW1", 10).Return([]models.Property{}, errors.New("connection refused"))

	result := resolverFor(store).Resolve("SW1", 10)

	// Errors are masked, never propagated.
	assert.Equal(t, OutcomeDegraded, result.Outcome)
	assert.NotNil(t, result.Data.Properties)
	assert.Empty(t, result.Data.Properties)
}

func TestSuggest_PrefixMatchesSortFirst(t *testing.T) {
	store := &MockStore{}
	store.On("SearchRegions", "lo", 3).Return([]models.Region{
		{ID: 1, Name: "East of England", Slug: "east-england"},
		{ID: 2, Name: "London", Slug: "london"},
	}, nil)
	store.On("CountPropertiesInRegion", uint(1)).Return(int64(90), nil)
	store.On("CountPropertiesInRegion", uint(2)).Return(int64(190), nil)
	store.On("LatestStatsForRegion", uint(1)).Return(nil, nil)
	store.On("LatestStatsForRegion", uint(2)).Return(&models.RegionMonthlyStats{AveragePrice: 687000, PriceChangeYoY: 8.4}, nil)
	store.On("PropertiesByPostcode", "lo", 5).Return([]models.Property{}, nil)

	result := resolverFor(store).Suggest("lo", 8)

	assert.Equal(t, OutcomeOK, result.Outcome)
	assert.Len(t, result.Results, 2)
	// "London" starts with the term, "East of England" only contains it.
	assert.Equal(t, "London", result.Results[0].Name)
	assert.Equal(t, 687000, result.Results[0].AveragePrice)
	assert.Equal(t, "East of England", result.Results[1].Name)
}

func TestSuggest_MixedResultsKeepRegionThenPostcodeOrder(t *testing.T) {
	store := &MockStore{}
	region := northWest()
	store.On("SearchRegions", "m1", 3).Return([]models.Region{}, nil)
	store.On("PropertiesByPostcode", "m1", 5).Return([]models.Property{
		{ID: 4, Postcode: "M1 1AA", Price: 210000, PropertyType: models.TypeFlat, Region: region},
		{ID: 5, Postcode: "OM1 2BB", Price: 450000, PropertyType: models.TypeDetached, Region: region},
	}, nil)

	result := resolverFor(store).Suggest("m1", 8)

	assert.Len(t, result.Results, 2)
	assert.Equal(t, "M1 1AA", result.Results[0].Name)
	assert.Equal(t, models.SearchResultPostcode, result.Results[0].Type)
	assert.Equal(t, "DETACHED • North West", result.Results[1].Description)
}

func TestSuggest_TruncatesToLimit(t *testing.T) {
	store := &MockStore{}
	store.On("SearchRegions", "north", 3).Return([]models.Region{
		{ID: 1, Name: "North West"},
		{ID: 2, Name: "North East"},
	}, nil)
	store.On("CountPropertiesInRegion", mock.Anything).Return(int64(10), nil)
	store.On("LatestStatsForRegion", mock.Anything).Return(nil, nil)
	store.On("PropertiesByPostcode", "north", 5).Return([]models.Property{}, nil)

	result := resolverFor(store).Suggest("north", 1)

	assert.Len(t, result.Results, 1)
	assert.Equal(t, "North West", result.Results[0].Name)
}

func TestSuggest_StoreErrorReturnsLabeledFallback(t *testing.T) {
	store := &MockStore{}
	store.On("SearchRegions", "leeds", 3).Return([]models.Region{}, errors.New("db down"))

	result := resolverFor(store).Suggest("leeds", 8)

	assert.Equal(t, OutcomeDegraded, result.Outcome)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, "error-fallback", result.Results[0].ID)
	assert.Equal(t, "Search temporarily unavailable", result.Results[0].Description)
	assert.Equal(t, "leeds", result.Results[0].Name)
}

func TestSuggest_QueryTooShort(t *testing.T) {
	result := resolverFor(&MockStore{}).Suggest("x", 8)

	assert.Equal(t, OutcomeInvalid, result.Outcome)
	assert.Empty(t, result.Results)
}

func resolverFor(store Store) *Resolver {
	return NewResolver(store, nil, nil)
}
