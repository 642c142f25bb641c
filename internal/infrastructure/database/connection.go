package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/persistence"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
)

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.Open(cfg.URL), nil
	case "sqlite":
		if cfg.InMemory() || cfg.Path == "" {
			return sqlite.Open(":memory:"), nil
		}
		// the file holds a bearer token, keep the directory private
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create session store directory: %w", err)
		}
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported session store type %q", cfg.Type)
	}
}

// Open connects to the session store and migrates its tables.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if cfg.Type == "sqlite" {
		// each :memory: connection would be its own empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(&persistence.SessionModel{}); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	return db, nil
}

// NewTestConnection returns a migrated in-memory store.
func NewTestConnection() (*gorm.DB, error) {
	return Open(&config.DatabaseConfig{Type: "sqlite", Path: ":memory:"})
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
