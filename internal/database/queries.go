package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"propwatch/server/internal/models"
)

// RegionWithStats pairs a region with its newest monthly stats row (nil
// when the region has none) and its live property count.
type RegionWithStats struct {
	Region     models.Region
	Latest     *models.RegionMonthlyStats
	SalesCount int
}

// ListRegions returns all regions ordered by name, each with its
// latest monthly stats row and property count. Regions without stats
// are included.
func (s *Store) ListRegions() ([]RegionWithStats, error) {
	var regions []models.Region
	if err := s.db.Order("name ASC").Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}

	latest, err := s.latestStatsByRegion()
	if err != nil {
		return nil, err
	}
	counts, err := s.propertyCountsByRegion()
	if err != nil {
		return nil, err
	}

	result := make([]RegionWithStats, 0, len(regions))
	for _, region := range regions {
		result = append(result, RegionWithStats{
			Region:     region,
			Latest:     latest[region.ID],
			SalesCount: counts[region.ID],
		})
	}
	return result, nil
}

func (s *Store) latestStatsByRegion() (map[uint]*models.RegionMonthlyStats, error) {
	var rows []models.RegionMonthlyStats
	err := s.db.
		Order("region_id ASC, month DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly stats: %w", err)
	}

	latest := make(map[uint]*models.RegionMonthlyStats, len(rows))
	for i := range rows {
		row := rows[i]
		if _, seen := latest[row.RegionID]; !seen {
			latest[row.RegionID] = &rows[i]
		}
	}
	return latest, nil
}

func (s *Store) propertyCountsByRegion() (map[uint]int, error) {
	var rows []struct {
		RegionID uint
		Count    int
	}
	err := s.db.Model(&models.Property{}).
		Select("region_id, COUNT(id) AS count").
		Group("region_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.RegionID] = r.Count
	}
	return counts, nil
}

// RegionBySlug returns the region with the given slug, or nil when it
// does not exist.
func (s *Store) RegionBySlug(slug string) (*models.Region, error) {
	var region models.Region
	err := s.db.Where("slug = ?", slug).First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load region %q: %w", slug, err)
	}
	return &region, nil
}

// RegionByName matches a region name case-insensitively, exact match
// first, then substring. Returns nil when nothing matches.
func (s *Store) RegionByName(name string) (*models.Region, error) {
	lower := strings.ToLower(name)

	var region models.Region
	err := s.db.Where("LOWER(name) = ?", lower).First(&region).Error
	if err == nil {
		return &region, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to match region %q: %w", name, err)
	}

	err = s.db.Where("LOWER(name) LIKE ?", "%"+lower+"%").First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match region %q: %w", name, err)
	}
	return &region, nil
}

// SearchRegions matches regions whose name or slug contains the term,
// case-insensitively, ordered by name.
func (s *Store) SearchRegions(term string, limit int) ([]models.Region, error) {
	needle := "%" + strings.ToLower(term) + "%"
	var regions []models.Region
	err := s.db.
		Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", needle, needle).
		Order("name ASC").
		Limit(limit).
		Find(&regions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search regions: %w", err)
	}
	return regions, nil
}

// CountProperties returns the national sale count.
func (s *Store) CountProperties() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Property{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// CountPropertiesInRegion returns one region's sale count.
func (s *Store) CountPropertiesInRegion(regionID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Property{}).
		Where("region_id = ?", regionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count region properties: %w", err)
	}
	return count, nil
}

// TypeBreakdown groups properties by type with count and mean price.
// A nil regionID pools nationally.
func (s *Store) TypeBreakdown(regionID *uint) ([]models.TypeAggregate, error) {
	q := s.db.Model(&models.Property{}).
		Select("property_type, COUNT(id) AS count, AVG(price) AS average_price").
		Group("property_type")
	if regionID != nil {
		q = q.Where("region_id = ?", *regionID)
	}

	var rows []models.TypeAggregate
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to compute type breakdown: %w", err)
	}
	return rows, nil
}

// LatestStatsMonth returns the single newest month across all monthly
// stats rows, or nil when no rows exist.
//
// A region whose newest row is older than this month is excluded from
// latest-month queries even if that row is newer than other regions'
// data. Known looseness, kept for output parity.
func (s *Store) LatestStatsMonth() (*time.Time, error) {
	var row models.RegionMonthlyStats
	err := s.db.Order("month DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest stats month: %w", err)
	}
	return &row.Month, nil
}

// StatsForMonth returns all stats rows for one month with their
// regions, in primary-key order.
func (s *Store) StatsForMonth(month time.Time) ([]models.RegionMonthlyStats, error) {
	var rows []models.RegionMonthlyStats
	err := s.db.
		Where("month = ?", month).
		Preload("Region").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for month: %w", err)
	}
	return rows, nil
}

// LatestStatsForRegion returns the newest stats row of one region, or
// nil when the region has none.
func (s *Store) LatestStatsForRegion(regionID uint) (*models.RegionMonthlyStats, error) {
	var row models.RegionMonthlyStats
	err := s.db.
		Where("region_id = ?", regionID).
		Order("month DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest region stats: %w", err)
	}
	return &row, nil
}

// PropertiesByPostcode matches postcodes by upper-cased substring,
// newest sale first.
func (s *Store) PropertiesByPostcode(term string, limit int) ([]models.Property, error) {
	needle := "%" + strings.ToUpper(strings.TrimSpace(term)) + "%"
	var properties []models.Property
	err := s.db.
		Where("UPPER(postcode) LIKE ?", needle).
		Preload("Region").
		Order("date_sold DESC").
		Limit(limit).
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search postcodes: %w", err)
	}
	return properties, nil
}

// PropertiesByRegion returns a region's sales, newest first. A
// non-positive limit returns all of them.
func (s *Store) PropertiesByRegion(regionID uint, limit int) ([]models.Property, error) {
	q := s.db.
		Where("region_id = ?", regionID).
		Preload("Region").
		Order("date_sold DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var properties []models.Property
	if err := q.Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to load region properties: %w", err)
	}
	return properties, nil
}

// PostcodePriceHistory returns matching sales oldest first, for price
// history charts.
func (s *Store) PostcodePriceHistory(term string) ([]models.Property, error) {
	needle := "%" + strings.ToUpper(strings.TrimSpace(term)) + "%"
	var properties []models.Property
	err := s.db.
		Where("UPPER(postcode) LIKE ?", needle).
		Order("date_sold ASC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	return properties, nil
}

// AllProperties streams every sale row, used by the search reindexer.
func (s *Store) AllProperties() ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Preload("Region").Order("id ASC").Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	return properties, nil
}
