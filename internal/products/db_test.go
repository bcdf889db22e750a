package product

import (
	"testing"

	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name, category string, priceCents, stock int) *models.Product {
	t.Helper()

	row := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		PriceCents: priceCents,
		Stock:      stock,
		IsActive:   true,
	}
	if err := conn.Create(row).Error; err != nil {
		t.Fatalf("failed to seed product %q: %v", name, err)
	}
	return row
}
