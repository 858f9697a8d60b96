package services

import (
	"errors"
	"fmt"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Association maintenance. Every paired edge (product/feature-key,
// product/image, product/file, user/favourite, user/role, category
// ownership) is mutated here, inside one transaction per logical
// operation, so both directions of an edge commit or roll back together.
// Add is idempotent, remove of an absent edge is a no-op, and edges that
// bump an entity's version return WriteConflictError on a lost race.

// categoryByID loads a category or reports it missing.
func categoryByID(tx *gorm.DB, id uint64) (*models.Category, error) {
	var category models.Category
	if err := tx.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("category", id)
		}
		return nil, err
	}
	return &category, nil
}

// productByID loads a product or reports it missing.
func productByID(tx *gorm.DB, id uint64) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("product", id)
		}
		return nil, err
	}
	return &product, nil
}

// productForUpdate loads a product under a row lock for the duration of
// the surrounding transaction.
func productForUpdate(tx *gorm.DB, id uint64) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("product", id)
		}
		return nil, err
	}
	return &product, nil
}

// categoryForUpdate loads a category under a row lock.
func categoryForUpdate(tx *gorm.DB, id uint64) (*models.Category, error) {
	var category models.Category
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("category", id)
		}
		return nil, err
	}
	return &category, nil
}

// userByID loads a user or reports it missing.
func userByID(tx *gorm.DB, id uint64) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("user", id)
		}
		return nil, err
	}
	return &user, nil
}

// joinExists reports whether a join-table edge row is present. Append on
// an existing edge would duplicate the row on dialects without a
// composite primary key, so adds check first.
func joinExists(tx *gorm.DB, table, leftColumn string, leftID uint64, rightColumn string, rightID uint64) (bool, error) {
	var count int64
	err := tx.Table(table).
		Where(fmt.Sprintf("%s = ? AND %s = ?", leftColumn, rightColumn), leftID, rightID).
		Count(&count).Error
	return count > 0, err
}

// bumpProductVersion performs the guarded version increment. Zero rows
// affected means another writer got there first.
func bumpProductVersion(tx *gorm.DB, product *models.Product) error {
	result := tx.Model(product).
		Where("version = ?", product.Version).
		Update("version", product.Version+1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &types.WriteConflictError{Entity: "product", ID: product.ID}
	}
	product.Version++
	return nil
}

// bumpCategoryVersion is the category counterpart of bumpProductVersion.
func bumpCategoryVersion(tx *gorm.DB, category *models.Category) error {
	result := tx.Model(category).
		Where("version = ?", category.Version).
		Update("version", category.Version+1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &types.WriteConflictError{Entity: "category", ID: category.ID}
	}
	category.Version++
	return nil
}

// AddFeatureKeyToProduct attaches a feature key to a product. Both sides
// of the edge live in product_feature_keys, written once.
func AddFeatureKeyToProduct(db *gorm.DB, productID, featureKeyID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		var key models.FeatureKey
		if err := tx.First(&key, featureKeyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("feature key", featureKeyID)
			}
			return err
		}
		exists, err := joinExists(tx, "product_feature_keys", "product_id", productID, "feature_key_id", featureKeyID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := tx.Model(product).Association("FeatureKeys").Append(&key); err != nil {
			return err
		}
		return bumpProductVersion(tx, product)
	})
}

// RemoveFeatureKeyFromProduct detaches a feature key from a product.
// Removing an absent edge changes nothing, version included.
func RemoveFeatureKeyFromProduct(db *gorm.DB, productID, featureKeyID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		var key models.FeatureKey
		if err := tx.First(&key, featureKeyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("feature key", featureKeyID)
			}
			return err
		}
		exists, err := joinExists(tx, "product_feature_keys", "product_id", productID, "feature_key_id", featureKeyID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		if err := tx.Model(product).Association("FeatureKeys").Delete(&key); err != nil {
			return err
		}
		return bumpProductVersion(tx, product)
	})
}

// AddImageToProduct attaches an image descriptor to a product.
func AddImageToProduct(db *gorm.DB, productID, imageID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		var image models.Image
		if err := tx.First(&image, imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("image", imageID)
			}
			return err
		}
		exists, err := joinExists(tx, "product_images", "product_id", productID, "image_id", imageID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := tx.Model(product).Association("Images").Append(&image); err != nil {
			return err
		}
		return bumpProductVersion(tx, product)
	})
}

// RemoveImageFromProduct detaches an image descriptor from a product.
func RemoveImageFromProduct(db *gorm.DB, productID, imageID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		var image models.Image
		if err := tx.First(&image, imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("image", imageID)
			}
			return err
		}
		exists, err := joinExists(tx, "product_images", "product_id", productID, "image_id", imageID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		if err := tx.Model(product).Association("Images").Delete(&image); err != nil {
			return err
		}
		return bumpProductVersion(tx, product)
	})
}

// AddFileToProduct attaches a file descriptor to a product.
func AddFileToProduct(db *gorm.DB, productID, fileID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		var file models.File
		if err := tx.First(&file, fileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("file", fileID)
			}
			return err
		}
		exists, err := joinExists(tx, "product_files", "product_id", productID, "file_id", fileID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := tx.Model(product).Association("Files").Append(&file); err != nil {
			return err
		}
		return bumpProductVersion(tx, product)
	})
}

// RemoveFileFromProduct detaches a file descriptor from a product.
func RemoveFileFromProduct(db *gorm.DB, productID, fileID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		var file models.File
		if err := tx.First(&file, fileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("file", fileID)
			}
			return err
		}
		exists, err := joinExists(tx, "product_files", "product_id", productID, "file_id", fileID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		if err := tx.Model(product).Association("Files").Delete(&file); err != nil {
			return err
		}
		return bumpProductVersion(tx, product)
	})
}

// AddProductToCategory moves a product into a category. The edge is the
// product's category_id column; the category side is derived, so a
// single guarded update keeps both views consistent.
func AddProductToCategory(db *gorm.DB, categoryID, productID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := categoryByID(tx, categoryID); err != nil {
			return err
		}
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		if product.CategoryID != nil && *product.CategoryID == categoryID {
			return nil
		}
		result := tx.Model(product).
			Where("version = ?", product.Version).
			Updates(map[string]interface{}{
				"category_id": categoryID,
				"version":     product.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &types.WriteConflictError{Entity: "product", ID: product.ID}
		}
		return nil
	})
}

// RemoveProductFromCategory detaches a product from a category. The
// product survives, uncategorized. A product sitting in a different
// category is left alone.
func RemoveProductFromCategory(db *gorm.DB, categoryID, productID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := categoryByID(tx, categoryID); err != nil {
			return err
		}
		product, err := productForUpdate(tx, productID)
		if err != nil {
			return err
		}
		if product.CategoryID == nil || *product.CategoryID != categoryID {
			return nil
		}
		result := tx.Model(product).
			Where("version = ?", product.Version).
			Updates(map[string]interface{}{
				"category_id": nil,
				"version":     product.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &types.WriteConflictError{Entity: "product", ID: product.ID}
		}
		return nil
	})
}

// AddFavouriteProduct marks a product as a favourite of a user.
func AddFavouriteProduct(db *gorm.DB, userID, productID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user, err := userByID(tx, userID)
		if err != nil {
			return err
		}
		product, err := productByID(tx, productID)
		if err != nil {
			return err
		}
		exists, err := joinExists(tx, "user_favourite_products", "user_id", userID, "product_id", productID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		return tx.Model(user).Association("Favourites").Append(product)
	})
}

// RemoveFavouriteProduct unmarks a favourite.
func RemoveFavouriteProduct(db *gorm.DB, userID, productID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user, err := userByID(tx, userID)
		if err != nil {
			return err
		}
		product, err := productByID(tx, productID)
		if err != nil {
			return err
		}
		exists, err := joinExists(tx, "user_favourite_products", "user_id", userID, "product_id", productID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		return tx.Model(user).Association("Favourites").Delete(product)
	})
}

// AddRoleToUser grants a role, addressed by value.
func AddRoleToUser(db *gorm.DB, userID uint64, role string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user, err := userByID(tx, userID)
		if err != nil {
			return err
		}
		var r models.Roles
		if err := tx.Where("role = ?", role).First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.NotFoundError{Entity: "role", Ref: role}
			}
			return err
		}
		exists, err := joinExists(tx, "user_roles", "user_id", userID, "role_id", r.ID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		return tx.Model(user).Association("Roles").Append(&r)
	})
}

// RemoveRoleFromUser revokes a role, addressed by value.
func RemoveRoleFromUser(db *gorm.DB, userID uint64, role string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user, err := userByID(tx, userID)
		if err != nil {
			return err
		}
		var r models.Roles
		if err := tx.Where("role = ?", role).First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.NotFoundError{Entity: "role", Ref: role}
			}
			return err
		}
		exists, err := joinExists(tx, "user_roles", "user_id", userID, "role_id", r.ID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		return tx.Model(user).Association("Roles").Delete(&r)
	})
}
