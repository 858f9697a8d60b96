package services

import (
	"errors"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/types"
	"gorm.io/gorm"
)

// FeatureRequest carries the single writable feature field.
type FeatureRequest struct {
	Name string `json:"name"`
}

// FeatureKeyRequest carries the writable feature-key fields.
type FeatureKeyRequest struct {
	Name string `json:"name"`
}

// CreateFeature inserts a feature. Names are unique.
func CreateFeature(db *gorm.DB, req FeatureRequest) (*FeatureView, error) {
	if req.Name == "" {
		return nil, &types.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	var existing models.Feature
	err := db.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return nil, &types.AlreadyExistsError{Entity: "feature", Ref: req.Name}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	feature := models.Feature{Name: req.Name}
	if err := db.Create(&feature).Error; err != nil {
		return nil, err
	}
	return featureView(&feature), nil
}

// ModifyFeature renames a feature.
func ModifyFeature(db *gorm.DB, id uint64, req FeatureRequest) (*FeatureView, error) {
	if req.Name == "" {
		return nil, &types.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	var view *FeatureView
	err := db.Transaction(func(tx *gorm.DB) error {
		feature, err := featureByID(tx, id)
		if err != nil {
			return err
		}
		var existing models.Feature
		err = tx.Where("name = ? AND id <> ?", req.Name, id).First(&existing).Error
		if err == nil {
			return &types.AlreadyExistsError{Entity: "feature", Ref: req.Name}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		feature.Name = req.Name
		if err := tx.Model(feature).Update("name", req.Name).Error; err != nil {
			return err
		}
		view = featureView(feature)
		return nil
	})
	return view, err
}

// DeleteFeature removes a feature together with its keys. Product edges
// to those keys are detached first so no half-removed edge survives.
func DeleteFeature(db *gorm.DB, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		feature, err := featureByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM product_feature_keys WHERE feature_key_id IN (SELECT id FROM feature_keys WHERE feature_id = ?)",
			feature.ID,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("feature_id = ?", feature.ID).
			Delete(&models.FeatureKey{}).Error; err != nil {
			return err
		}
		return tx.Delete(feature).Error
	})
}

// GetFeature returns one feature with its keys.
func GetFeature(db *gorm.DB, id uint64) (*FeatureView, error) {
	var feature models.Feature
	err := db.Preload("FeatureKeys").First(&feature, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("feature", id)
		}
		return nil, err
	}
	return featureView(&feature), nil
}

// ListFeatures returns all features with their keys, name-ordered.
// The feature table is small enough that listing is unpaged.
func ListFeatures(db *gorm.DB) ([]FeatureView, error) {
	var features []models.Feature
	if err := db.Preload("FeatureKeys").Order("name ASC").Find(&features).Error; err != nil {
		return nil, err
	}
	views := make([]FeatureView, 0, len(features))
	for i := range features {
		views = append(views, *featureView(&features[i]))
	}
	return views, nil
}

// CreateFeatureKey inserts a key under an existing feature.
func CreateFeatureKey(db *gorm.DB, featureID uint64, req FeatureKeyRequest) (*FeatureKeyView, error) {
	if req.Name == "" {
		return nil, &types.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	var view *FeatureKeyView
	err := db.Transaction(func(tx *gorm.DB) error {
		feature, err := featureByID(tx, featureID)
		if err != nil {
			return err
		}
		key := models.FeatureKey{Name: req.Name, FeatureID: feature.ID}
		if err := tx.Create(&key).Error; err != nil {
			return err
		}
		view = featureKeyView(&key)
		return nil
	})
	return view, err
}

// ModifyFeatureKey renames a key. The key must belong to the addressed
// feature.
func ModifyFeatureKey(db *gorm.DB, featureID, keyID uint64, req FeatureKeyRequest) (*FeatureKeyView, error) {
	if req.Name == "" {
		return nil, &types.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	var view *FeatureKeyView
	err := db.Transaction(func(tx *gorm.DB) error {
		key, err := featureKeyByID(tx, keyID)
		if err != nil {
			return err
		}
		if key.FeatureID != featureID {
			return types.NotFound("feature key", keyID)
		}
		key.Name = req.Name
		if err := tx.Model(key).Update("name", req.Name).Error; err != nil {
			return err
		}
		view = featureKeyView(key)
		return nil
	})
	return view, err
}

// DeleteFeatureKey removes a key and detaches it from every product.
func DeleteFeatureKey(db *gorm.DB, keyID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		key, err := featureKeyByID(tx, keyID)
		if err != nil {
			return err
		}
		if err := tx.Model(key).Association("Products").Clear(); err != nil {
			return err
		}
		return tx.Delete(key).Error
	})
}

// GetFeatureKey returns one key by id.
func GetFeatureKey(db *gorm.DB, keyID uint64) (*FeatureKeyView, error) {
	key, err := featureKeyByID(db, keyID)
	if err != nil {
		return nil, err
	}
	return featureKeyView(key), nil
}

func featureByID(tx *gorm.DB, id uint64) (*models.Feature, error) {
	var feature models.Feature
	if err := tx.First(&feature, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("feature", id)
		}
		return nil, err
	}
	return &feature, nil
}

func featureKeyByID(tx *gorm.DB, id uint64) (*models.FeatureKey, error) {
	var key models.FeatureKey
	if err := tx.First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("feature key", id)
		}
		return nil, err
	}
	return &key, nil
}
