package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localstore/storeapi/internal/database"
	"github.com/localstore/storeapi/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := database.SeedRoles(db); err != nil {
		t.Fatalf("Failed to seed roles: %v", err)
	}

	return db
}

// createCategory inserts a category row directly for test setup
func createCategory(t *testing.T, db *gorm.DB, name string, parentID *uint64) *models.Category {
	category := models.Category{Name: name, ParentID: parentID}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to create category %s: %v", name, err)
	}
	return &category
}

// createProduct inserts a product row directly for test setup
func createProduct(t *testing.T, db *gorm.DB, name string, categoryID uint64) *models.Product {
	product := models.Product{
		Name:       name,
		CodeUnit:   "pcs",
		IsActive:   true,
		Price:      100,
		MaxPrice:   150,
		CategoryID: &categoryID,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product %s: %v", name, err)
	}
	return &product
}

// createFeatureWithKey inserts a feature and one key for test setup
func createFeatureWithKey(t *testing.T, db *gorm.DB, feature, key string) (*models.Feature, *models.FeatureKey) {
	f := models.Feature{Name: feature}
	if err := db.Create(&f).Error; err != nil {
		t.Fatalf("Failed to create feature %s: %v", feature, err)
	}
	k := models.FeatureKey{Name: key, FeatureID: f.ID}
	if err := db.Create(&k).Error; err != nil {
		t.Fatalf("Failed to create feature key %s: %v", key, err)
	}
	return &f, &k
}

// createUser inserts a user row directly for test setup
func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "x",
		Discount:  models.DefaultDiscount,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return &user
}
