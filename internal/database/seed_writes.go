package database

import (
	"fmt"

	"gorm.io/gorm"

	"propwatch/server/internal/models"
)

// Seed-time write paths. The request path is read-only; these exist
// for cmd/seed and tests.

// UpsertRegion creates a region by slug or returns the existing row.
func (s *Store) UpsertRegion(region *models.Region) error {
	err := s.db.Where(models.Region{Slug: region.Slug}).
		Assign(models.Region{Name: region.Name}).
		FirstOrCreate(region).Error
	if err != nil {
		return fmt.Errorf("failed to upsert region %q: %w", region.Slug, err)
	}
	return nil
}

// ReplaceMonthlyStats swaps out every stats row of a region in one
// transaction, preserving the one-row-per-(region, month) invariant.
func (s *Store) ReplaceMonthlyStats(regionID uint, rows []models.RegionMonthlyStats) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("region_id = ?", regionID).
			Delete(&models.RegionMonthlyStats{}).Error; err != nil {
			return fmt.Errorf("failed to clear monthly stats: %w", err)
		}
		for i := range rows {
			rows[i].RegionID = regionID
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert monthly stats: %w", err)
		}
		return nil
	})
}

// InsertProperties writes a batch of sale rows in one transaction.
func (s *Store) InsertProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&properties, 100).Error; err != nil {
			return fmt.Errorf("failed to insert properties: %w", err)
		}
		return nil
	})
}

// ClearProperties removes every sale row, used before a reseed.
func (s *Store) ClearProperties() error {
	if err := s.db.Where("1 = 1").Delete(&models.Property{}).Error; err != nil {
		return fmt.Errorf("failed to clear properties: %w", err)
	}
	return nil
}
