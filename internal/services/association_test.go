package services_test

import (
	"errors"
	"testing"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/types"
)

// TestAddFeatureKeyToProductIdempotent verifies a repeated add creates
// no duplicate edge and bumps the version only once.
func TestAddFeatureKeyToProductIdempotent(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	_, key := createFeatureWithKey(t, db, "color", "black")

	if err := services.AddFeatureKeyToProduct(db, product.ID, key.ID); err != nil {
		t.Fatalf("First add failed: %v", err)
	}
	if err := services.AddFeatureKeyToProduct(db, product.ID, key.ID); err != nil {
		t.Fatalf("Second add failed: %v", err)
	}

	var edges int64
	db.Table("product_feature_keys").
		Where("product_id = ? AND feature_key_id = ?", product.ID, key.ID).
		Count(&edges)
	if edges != 1 {
		t.Errorf("Expected 1 edge, got %d", edges)
	}

	var reloaded models.Product
	db.First(&reloaded, product.ID)
	if reloaded.Version != 1 {
		t.Errorf("Expected version 1 after idempotent add, got %d", reloaded.Version)
	}
}

// TestRemoveFeatureKeyAbsentEdge verifies removing a missing edge is a
// no-op and does not bump the version.
func TestRemoveFeatureKeyAbsentEdge(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	_, key := createFeatureWithKey(t, db, "color", "black")

	if err := services.RemoveFeatureKeyFromProduct(db, product.ID, key.ID); err != nil {
		t.Fatalf("Remove of absent edge failed: %v", err)
	}

	var reloaded models.Product
	db.First(&reloaded, product.ID)
	if reloaded.Version != 0 {
		t.Errorf("Expected version 0 after no-op remove, got %d", reloaded.Version)
	}
}

// TestAddFeatureKeyMissingProduct verifies a missing referent is a
// typed not-found error.
func TestAddFeatureKeyMissingProduct(t *testing.T) {
	db := setupTestDB(t)
	_, key := createFeatureWithKey(t, db, "color", "black")

	err := services.AddFeatureKeyToProduct(db, 9999, key.ID)
	var notFound *types.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

// TestAddRemoveImageAndFile covers the paired image and file edges.
func TestAddRemoveImageAndFile(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)

	image := models.Image{FileName: "front.jpg", ObjectKey: "11111111-1111-1111-1111-111111111111"}
	if err := db.Create(&image).Error; err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	file := models.File{FileName: "manual.pdf", ObjectKey: "22222222-2222-2222-2222-222222222222"}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if err := services.AddImageToProduct(db, product.ID, image.ID); err != nil {
		t.Fatalf("AddImageToProduct failed: %v", err)
	}
	if err := services.AddFileToProduct(db, product.ID, file.ID); err != nil {
		t.Fatalf("AddFileToProduct failed: %v", err)
	}

	view, err := services.GetProduct(db, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if len(view.Images) != 1 || view.Images[0] != image.ID {
		t.Errorf("Expected image edge %d, got %v", image.ID, view.Images)
	}
	if len(view.Files) != 1 || view.Files[0] != file.ID {
		t.Errorf("Expected file edge %d, got %v", file.ID, view.Files)
	}

	if err := services.RemoveImageFromProduct(db, product.ID, image.ID); err != nil {
		t.Fatalf("RemoveImageFromProduct failed: %v", err)
	}
	if err := services.RemoveFileFromProduct(db, product.ID, file.ID); err != nil {
		t.Fatalf("RemoveFileFromProduct failed: %v", err)
	}

	view, _ = services.GetProduct(db, product.ID)
	if len(view.Images) != 0 || len(view.Files) != 0 {
		t.Errorf("Expected no edges after removal, got images=%v files=%v", view.Images, view.Files)
	}
}

// TestAddProductToCategoryMove verifies ownership moves between
// categories and repeated adds are idempotent.
func TestAddProductToCategoryMove(t *testing.T) {
	db := setupTestDB(t)
	first := createCategory(t, db, "electronics", nil)
	second := createCategory(t, db, "appliances", nil)
	product := createProduct(t, db, "phone", first.ID)

	if err := services.AddProductToCategory(db, second.ID, product.ID); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	var reloaded models.Product
	db.First(&reloaded, product.ID)
	if reloaded.CategoryID == nil || *reloaded.CategoryID != second.ID {
		t.Errorf("Expected category %d, got %v", second.ID, reloaded.CategoryID)
	}
	if reloaded.Version != 1 {
		t.Errorf("Expected version 1 after move, got %d", reloaded.Version)
	}

	// Same assignment again: no version change
	if err := services.AddProductToCategory(db, second.ID, product.ID); err != nil {
		t.Fatalf("Idempotent add failed: %v", err)
	}
	db.First(&reloaded, product.ID)
	if reloaded.Version != 1 {
		t.Errorf("Expected version 1 after idempotent add, got %d", reloaded.Version)
	}
}

// TestRemoveProductFromCategoryDetaches verifies detach clears the
// owner and a mismatched category is a no-op.
func TestRemoveProductFromCategoryDetaches(t *testing.T) {
	db := setupTestDB(t)
	first := createCategory(t, db, "electronics", nil)
	second := createCategory(t, db, "appliances", nil)
	product := createProduct(t, db, "phone", first.ID)

	// Product sits in first; removing from second changes nothing
	if err := services.RemoveProductFromCategory(db, second.ID, product.ID); err != nil {
		t.Fatalf("Mismatched remove failed: %v", err)
	}
	var reloaded models.Product
	db.First(&reloaded, product.ID)
	if reloaded.CategoryID == nil || *reloaded.CategoryID != first.ID {
		t.Errorf("Expected category unchanged, got %v", reloaded.CategoryID)
	}

	if err := services.RemoveProductFromCategory(db, first.ID, product.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	db.First(&reloaded, product.ID)
	if reloaded.CategoryID != nil {
		t.Errorf("Expected detached product, got category %v", reloaded.CategoryID)
	}
}

// TestFavouriteEdges verifies add/remove of user favourites with
// idempotency on both sides.
func TestFavouriteEdges(t *testing.T) {
	db := setupTestDB(t)
	category := createCategory(t, db, "electronics", nil)
	product := createProduct(t, db, "phone", category.ID)
	user := createUser(t, db, "ada@example.com")

	if err := services.AddFavouriteProduct(db, user.ID, product.ID); err != nil {
		t.Fatalf("AddFavouriteProduct failed: %v", err)
	}
	if err := services.AddFavouriteProduct(db, user.ID, product.ID); err != nil {
		t.Fatalf("Repeated AddFavouriteProduct failed: %v", err)
	}

	var edges int64
	db.Table("user_favourite_products").
		Where("user_id = ? AND product_id = ?", user.ID, product.ID).
		Count(&edges)
	if edges != 1 {
		t.Errorf("Expected 1 favourite edge, got %d", edges)
	}

	if err := services.RemoveFavouriteProduct(db, user.ID, product.ID); err != nil {
		t.Fatalf("RemoveFavouriteProduct failed: %v", err)
	}
	if err := services.RemoveFavouriteProduct(db, user.ID, product.ID); err != nil {
		t.Fatalf("Repeated RemoveFavouriteProduct failed: %v", err)
	}
}

// TestRoleEdges verifies role grant and revoke addressed by value.
func TestRoleEdges(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "ada@example.com")

	if err := services.AddRoleToUser(db, user.ID, models.RoleAdmin); err != nil {
		t.Fatalf("AddRoleToUser failed: %v", err)
	}
	view, err := services.GetUser(db, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if len(view.Roles) != 1 || view.Roles[0] != models.RoleAdmin {
		t.Errorf("Expected ADMIN role, got %v", view.Roles)
	}

	if err := services.RemoveRoleFromUser(db, user.ID, models.RoleAdmin); err != nil {
		t.Fatalf("RemoveRoleFromUser failed: %v", err)
	}
	view, _ = services.GetUser(db, user.ID)
	if len(view.Roles) != 0 {
		t.Errorf("Expected no roles, got %v", view.Roles)
	}

	err = services.AddRoleToUser(db, user.ID, "NOPE")
	var notFound *types.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError for unknown role, got %v", err)
	}
}
