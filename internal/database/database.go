package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"propwatch/server/config"
	"propwatch/server/internal/models"
)

// Store is the explicit handle to the record store. It is constructed
// once in main and passed to everything that queries; construction
// fails fast when the configuration is unusable.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured backend and migrates the schema.
func Open(cfg *config.Config) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Region{},
		&models.Property{},
		&models.RegionMonthlyStats{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		path := cfg.Database.Path
		if path == "" {
			return nil, fmt.Errorf("sqlite driver selected but DB_PATH is empty")
		}
		if dir := filepath.Dir(path); dir != "." && dir != ":memory:" && path != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.Open(path), nil
	case "mysql":
		if cfg.Database.DSN == "" {
			return nil, fmt.Errorf("mysql driver selected but MYSQL_DSN is empty")
		}
		return mysql.Open(cfg.Database.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// OpenMemory opens a throwaway in-memory sqlite store, used by tests
// and local experiments.
func OpenMemory() (*Store, error) {
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"
	return Open(cfg)
}

// Ping verifies the underlying connection is alive.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
