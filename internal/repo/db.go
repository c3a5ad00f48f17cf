// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the category seed.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/n0social/verbshift-api/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, and
// installs the OpenTelemetry tracing plugin so every query shows up as a
// span under the owning request.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate applies the schema for all persisted models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Category{},
		&domain.Guide{},
		&domain.Blog{},
		&domain.Subscription{},
		&domain.Idempotency{},
	)
}

// seedCategories is the initial taxonomy created on first boot.
var seedCategories = []domain.Category{
	{Name: "Getting Started", Slug: "getting-started", Description: "Beginner guides to get you started with AI", Color: "#10b981"},
	{Name: "Machine Learning", Slug: "machine-learning", Description: "Deep dives into machine learning concepts", Color: "#8b5cf6"},
	{Name: "Prompt Engineering", Slug: "prompt-engineering", Description: "Master the art of crafting effective prompts", Color: "#f59e0b"},
	{Name: "Tools & Frameworks", Slug: "tools-and-frameworks", Description: "Reviews and tutorials for AI tools", Color: "#ec4899"},
	{Name: "AI News", Slug: "news", Description: "Latest updates from the AI world", Color: "#0ea5e9"},
}

// SeedCategories inserts the default categories when they are absent.
// Existing rows (matched by slug) are left untouched, so the seed is safe
// to run on every startup.
func SeedCategories(db *gorm.DB) error {
	for _, c := range seedCategories {
		var count int64
		if err := db.Model(&domain.Category{}).Where("slug = ?", c.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		c.ID = uuid.NewString()
		c.CreatedAt = time.Now().UTC()
		if err := db.Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}
