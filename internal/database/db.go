package database

import (
	"fmt"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/config"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options every connection shares. TranslateError maps driver unique
// violations to gorm.ErrDuplicatedKey so repositories can report conflicts.
func Options() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Connect opens the Postgres store and checks it is reachable.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	start := time.Now()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), Options())
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connected successfully",
		zap.Duration("duration", time.Since(start)),
	)
	return db, nil
}

// Migrate creates or updates the users and restaurants tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Restaurant{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Log.Info("Database migration completed")
	return nil
}
