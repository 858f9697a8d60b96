package query_test

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localstore/storeapi/internal/database"
	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/query"
	"github.com/localstore/storeapi/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupQueryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// seedCatalog builds a two-level category forest with products and one
// feature spanning two keys:
//
//	electronics          garden
//	├── phones              └── (hose 40)
//	│     └── cheap-phone 10, fancy-phone 99
//	└── laptops
//	      └── workbook 99
func seedCatalog(t *testing.T, db *gorm.DB) {
	electronics := models.Category{Name: "electronics"}
	garden := models.Category{Name: "garden"}
	require.NoError(t, db.Create(&electronics).Error)
	require.NoError(t, db.Create(&garden).Error)

	phones := models.Category{Name: "phones", ParentID: &electronics.ID}
	laptops := models.Category{Name: "laptops", ParentID: &electronics.ID}
	require.NoError(t, db.Create(&phones).Error)
	require.NoError(t, db.Create(&laptops).Error)

	color := models.Feature{Name: "color"}
	require.NoError(t, db.Create(&color).Error)
	black := models.FeatureKey{Name: "black", FeatureID: color.ID}
	white := models.FeatureKey{Name: "white", FeatureID: color.ID}
	require.NoError(t, db.Create(&black).Error)
	require.NoError(t, db.Create(&white).Error)

	products := []models.Product{
		{Name: "cheap-phone", CodeUnit: "pcs", Price: 10, MaxPrice: 20, CategoryID: &phones.ID,
			FeatureKeys: []models.FeatureKey{black, white}},
		{Name: "fancy-phone", CodeUnit: "pcs", Price: 99, MaxPrice: 120, CategoryID: &phones.ID},
		{Name: "workbook", CodeUnit: "pcs", Price: 99, MaxPrice: 150, CategoryID: &laptops.ID},
		{Name: "hose", CodeUnit: "m", Price: 40, MaxPrice: 40, CategoryID: &garden.ID},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func productNames(t *testing.T, q *gorm.DB) []string {
	var products []models.Product
	require.NoError(t, q.Find(&products).Error)
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func TestProductsNameContains(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	q, err := query.Products(db, query.ProductFilter{Name: "phone"}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap-phone", "fancy-phone"}, productNames(t, q))
}

func TestProductsPriceExact(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	price := int64(99)
	q, err := query.Products(db, query.ProductFilter{Price: &price}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fancy-phone", "workbook"}, productNames(t, q))
}

func TestProductsByCategoryName(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	q, err := query.Products(db, query.ProductFilter{Category: "phones"}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap-phone", "fancy-phone"}, productNames(t, q))
}

// Parent-category criteria reach one level up the forest: every product
// in any child of electronics qualifies.
func TestProductsByParentCategory(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	q, err := query.Products(db, query.ProductFilter{ParentCategory: "electronics"}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap-phone", "fancy-phone", "workbook"}, productNames(t, q))
}

// A product carrying two keys of the same feature must come back once.
func TestProductsByFeatureDeduplicates(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	q, err := query.Products(db, query.ProductFilter{Feature: "color"}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap-phone"}, productNames(t, q))
}

func TestProductsCombinedCriteria(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	price := int64(99)
	q, err := query.Products(db, query.ProductFilter{
		ParentCategory: "electronics",
		Price:          &price,
		Name:           "phone",
	}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fancy-phone"}, productNames(t, q))
}

func TestProductsPaging(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	q, err := query.Products(db, query.ProductFilter{}, query.Page{Number: 0, Size: query.PageSize(2), SortBy: "price"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap-phone", "hose"}, productNames(t, q))

	q, err = query.Products(db, query.ProductFilter{}, query.Page{Number: 1, Size: query.PageSize(2), SortBy: "price"})
	require.NoError(t, err)
	assert.Len(t, productNames(t, q), 2)
}

func TestCategoriesByParentName(t *testing.T) {
	db := setupQueryDB(t)
	seedCatalog(t, db)

	q, err := query.Categories(db, query.CategoryFilter{ParentCategory: "electronics"}, query.Page{})
	require.NoError(t, err)

	var categories []models.Category
	require.NoError(t, q.Find(&categories).Error)
	require.Len(t, categories, 2)
	assert.Equal(t, "laptops", categories[0].Name)
	assert.Equal(t, "phones", categories[1].Name)
}

func TestPageValidation(t *testing.T) {
	db := setupQueryDB(t)

	var invalid *types.InvalidQueryError

	_, err := query.Products(db, query.ProductFilter{}, query.Page{Number: -1})
	assert.True(t, errors.As(err, &invalid), "negative page number: %v", err)

	_, err = query.Products(db, query.ProductFilter{}, query.Page{Size: query.PageSize(-5)})
	assert.True(t, errors.As(err, &invalid), "negative page size: %v", err)

	// An explicit zero is rejected, it does not fall back to the default
	_, err = query.Products(db, query.ProductFilter{}, query.Page{Size: query.PageSize(0)})
	assert.True(t, errors.As(err, &invalid), "zero page size: %v", err)

	_, err = query.Products(db, query.ProductFilter{}, query.Page{SortBy: "password"})
	assert.True(t, errors.As(err, &invalid), "unknown sort key: %v", err)

	// The allowlist is per-entity: price sorts products, not categories
	_, err = query.Categories(db, query.CategoryFilter{}, query.Page{SortBy: "price"})
	assert.True(t, errors.As(err, &invalid), "foreign sort key: %v", err)
}

func TestUsersDefaultSort(t *testing.T) {
	db := setupQueryDB(t)
	for _, u := range []models.User{
		{FirstName: "Grace", Email: "g@example.com", Password: "x"},
		{FirstName: "Ada", Email: "a@example.com", Password: "x"},
	} {
		require.NoError(t, db.Create(&u).Error)
	}

	q, err := query.Users(db, query.Page{})
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, q.Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, "Ada", users[0].FirstName)
}
