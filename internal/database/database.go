package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zluffi/zluffi-backend/internal/config"
	"github.com/zluffi/zluffi-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for every model in the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Listing{},
		&models.ListingImage{},
		&models.Message{},
		&models.Favorite{},
		&models.Report{},
		&models.Block{},
		&models.SystemLog{},
	)
}

// SeedCategories inserts the default category tree when the table is
// empty. Slugs are stable so re-running is a no-op.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Category{
		{Name: "Electronics", Slug: "electronics", Icon: "cpu"},
		{Name: "Furniture", Slug: "furniture", Icon: "sofa"},
		{Name: "Clothing", Slug: "clothing", Icon: "shirt"},
		{Name: "Vehicles", Slug: "vehicles", Icon: "car"},
		{Name: "Books & Media", Slug: "books-media", Icon: "book"},
		{Name: "Sports & Outdoors", Slug: "sports-outdoors", Icon: "bike"},
		{Name: "Home & Garden", Slug: "home-garden", Icon: "flower"},
		{Name: "Toys & Games", Slug: "toys-games", Icon: "gamepad"},
		{Name: "Services", Slug: "services", Icon: "wrench"},
		{Name: "Other", Slug: "other", Icon: "box"},
	}
	return db.Create(&defaults).Error
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
