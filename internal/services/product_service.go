package services

import (
	"errors"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/query"
	"github.com/localstore/storeapi/internal/types"
	"gorm.io/gorm"
)

// ProductRequest carries the writable product fields. On modify, empty
// strings and zero ids leave the current value alone; a non-empty id
// list replaces the whole association set.
type ProductRequest struct {
	Name          string   `json:"name"`
	CodeUnit      string   `json:"codeUnit"`
	IsActive      *bool    `json:"isActive"`
	Price         int64    `json:"price"`
	MaxPrice      int64    `json:"maxPrice"`
	Description   string   `json:"description"`
	CategoryID    uint64   `json:"categoryId"`
	FeatureKeysID []uint64 `json:"featureKeysId"`
	Images        []uint64 `json:"images"`
	Files         []uint64 `json:"files"`
}

// CreateProduct inserts a product into an existing category and wires
// any referenced feature keys, images and files in the same transaction.
func CreateProduct(db *gorm.DB, req ProductRequest) (*ProductView, error) {
	if req.Name == "" {
		return nil, &types.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if req.CodeUnit == "" {
		return nil, &types.ValidationError{Field: "codeUnit", Reason: "must not be empty"}
	}
	if req.Price <= 0 {
		return nil, &types.ValidationError{Field: "price", Reason: "must be positive"}
	}
	if req.MaxPrice < req.Price {
		return nil, &types.ValidationError{Field: "maxPrice", Reason: "must not be below price"}
	}
	if req.CategoryID == 0 {
		return nil, &types.ValidationError{Field: "categoryId", Reason: "is required"}
	}

	var view *ProductView
	err := db.Transaction(func(tx *gorm.DB) error {
		category, err := categoryByID(tx, req.CategoryID)
		if err != nil {
			return err
		}
		product := models.Product{
			Name:        req.Name,
			CodeUnit:    req.CodeUnit,
			IsActive:    true,
			Price:       req.Price,
			MaxPrice:    req.MaxPrice,
			Description: req.Description,
			CategoryID:  &category.ID,
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if err := replaceProductAssociations(tx, &product, req); err != nil {
			return err
		}
		view = productView(&product)
		return nil
	})
	return view, err
}

// ModifyProduct applies a partial scalar update plus replace-all
// association semantics, then bumps the version under guard.
func ModifyProduct(db *gorm.DB, id uint64, req ProductRequest) (*ProductView, error) {
	var view *ProductView
	err := db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"version": product.Version + 1}
		if req.Name != "" {
			updates["name"] = req.Name
			product.Name = req.Name
		}
		if req.CodeUnit != "" {
			updates["code_unit"] = req.CodeUnit
			product.CodeUnit = req.CodeUnit
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
			product.IsActive = *req.IsActive
		}
		if req.Price != 0 {
			updates["price"] = req.Price
			product.Price = req.Price
		}
		if req.MaxPrice != 0 {
			updates["max_price"] = req.MaxPrice
			product.MaxPrice = req.MaxPrice
		}
		if req.Description != "" {
			updates["description"] = req.Description
			product.Description = req.Description
		}
		if product.Price <= 0 {
			return &types.ValidationError{Field: "price", Reason: "must be positive"}
		}
		if product.MaxPrice < product.Price {
			return &types.ValidationError{Field: "maxPrice", Reason: "must not be below price"}
		}
		if req.CategoryID != 0 {
			category, err := categoryByID(tx, req.CategoryID)
			if err != nil {
				return err
			}
			updates["category_id"] = category.ID
			product.CategoryID = &category.ID
		}

		if err := replaceProductAssociations(tx, product, req); err != nil {
			return err
		}

		result := tx.Model(product).Where("version = ?", product.Version).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &types.WriteConflictError{Entity: "product", ID: product.ID}
		}
		product.Version++
		view = productView(product)
		return nil
	})
	return view, err
}

// replaceProductAssociations applies replace-all semantics per edge
// kind: an empty id list leaves the existing set untouched, a non-empty
// list becomes the new set. Every referenced id must exist.
func replaceProductAssociations(tx *gorm.DB, product *models.Product, req ProductRequest) error {
	if len(req.FeatureKeysID) > 0 {
		keys, err := featureKeysByIDs(tx, req.FeatureKeysID)
		if err != nil {
			return err
		}
		if err := tx.Model(product).Association("FeatureKeys").Replace(&keys); err != nil {
			return err
		}
		product.FeatureKeys = keys
	}
	if len(req.Images) > 0 {
		var images []models.Image
		if err := tx.Find(&images, req.Images).Error; err != nil {
			return err
		}
		if missing := firstMissing(req.Images, imageIDs(images)); missing != 0 {
			return types.NotFound("image", missing)
		}
		if err := tx.Model(product).Association("Images").Replace(&images); err != nil {
			return err
		}
		product.Images = images
	}
	if len(req.Files) > 0 {
		var files []models.File
		if err := tx.Find(&files, req.Files).Error; err != nil {
			return err
		}
		if missing := firstMissing(req.Files, fileIDs(files)); missing != 0 {
			return types.NotFound("file", missing)
		}
		if err := tx.Model(product).Association("Files").Replace(&files); err != nil {
			return err
		}
		product.Files = files
	}
	return nil
}

func featureKeysByIDs(tx *gorm.DB, ids []uint64) ([]models.FeatureKey, error) {
	var keys []models.FeatureKey
	if err := tx.Find(&keys, ids).Error; err != nil {
		return nil, err
	}
	found := make([]uint64, 0, len(keys))
	for _, key := range keys {
		found = append(found, key.ID)
	}
	if missing := firstMissing(ids, found); missing != 0 {
		return nil, types.NotFound("feature key", missing)
	}
	return keys, nil
}

func imageIDs(images []models.Image) []uint64 {
	ids := make([]uint64, 0, len(images))
	for _, image := range images {
		ids = append(ids, image.ID)
	}
	return ids
}

func fileIDs(files []models.File) []uint64 {
	ids := make([]uint64, 0, len(files))
	for _, file := range files {
		ids = append(ids, file.ID)
	}
	return ids
}

// firstMissing returns the first id from wanted absent in found, or zero.
func firstMissing(wanted, found []uint64) uint64 {
	present := make(map[uint64]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	for _, id := range wanted {
		if !present[id] {
			return id
		}
	}
	return 0
}

// DeleteProduct removes a product with its edges. Cart lines still open
// for the product are dropped; a product referenced by an order stays.
func DeleteProduct(db *gorm.DB, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, id)
		if err != nil {
			return err
		}

		var claimed int64
		if err := tx.Model(&models.Card{}).
			Where("product_id = ? AND order_id IS NOT NULL", product.ID).
			Count(&claimed).Error; err != nil {
			return err
		}
		if claimed > 0 {
			return &types.ValidationError{
				Field:  "id",
				Reason: "product is referenced by ordered cards",
			}
		}

		if err := tx.Where("product_id = ? AND order_id IS NULL", product.ID).
			Delete(&models.Card{}).Error; err != nil {
			return err
		}
		for _, association := range []string{"FeatureKeys", "Images", "Files"} {
			if err := tx.Model(product).Association(association).Clear(); err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM user_favourite_products WHERE product_id = ?", product.ID).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
}

// GetProduct returns one product with its association edges as id lists.
func GetProduct(db *gorm.DB, id uint64) (*ProductView, error) {
	var product models.Product
	err := db.Preload("FeatureKeys").Preload("Images").Preload("Files").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("product", id)
		}
		return nil, err
	}
	return productView(&product), nil
}

// ListProducts runs a compiled product query and returns the page as
// flat views, edges included.
func ListProducts(db *gorm.DB, filter query.ProductFilter, page query.Page) ([]ProductView, error) {
	q, err := query.Products(db, filter, page)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := q.Preload("FeatureKeys").Preload("Images").Preload("Files").
		Find(&products).Error; err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, *productView(&products[i]))
	}
	return views, nil
}

// ListFavouriteProducts returns the favourite set of one user.
func ListFavouriteProducts(db *gorm.DB, userID uint64) ([]ProductView, error) {
	if _, err := userByID(db, userID); err != nil {
		return nil, err
	}
	var products []models.Product
	err := db.Preload("FeatureKeys").Preload("Images").Preload("Files").
		Joins("JOIN user_favourite_products ufp ON ufp.product_id = products.id").
		Where("ufp.user_id = ?", userID).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, *productView(&products[i]))
	}
	return views, nil
}
