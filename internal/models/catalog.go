package models

import (
	"time"
)

// Category is a node in the category forest. ParentID is nil for roots.
// Version guards concurrent mutation of the category and its product set.
type Category struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"size:150;not null"`
	ParentID  *uint64 `gorm:"index"`
	Parent    *Category `gorm:"foreignKey:ParentID"`
	Version   uint64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Products  []Product `gorm:"foreignKey:CategoryID"`
}

// Product belongs to one category. CategoryID is required on create but
// nullable in the schema so category deletion can detach owned products
// without deleting them.
type Product struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"size:150;not null;index"`
	CodeUnit    string  `gorm:"size:150;not null"`
	IsActive    bool    `gorm:"not null;default:true"`
	Price       int64   `gorm:"not null"`
	MaxPrice    int64   `gorm:"not null"`
	Description string  `gorm:"size:250"`
	CategoryID  *uint64 `gorm:"index"`
	Category    *Category
	Version     uint64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FeatureKeys []FeatureKey `gorm:"many2many:product_feature_keys;joinForeignKey:product_id;joinReferences:feature_key_id"`
	Images      []Image      `gorm:"many2many:product_images;joinForeignKey:product_id;joinReferences:image_id"`
	Files       []File       `gorm:"many2many:product_files;joinForeignKey:product_id;joinReferences:file_id"`
	Cards       []Card       `gorm:"foreignKey:ProductID"`
}

// Feature names a product attribute ("color", "display"). Its keys are the
// concrete values products reference.
type Feature struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:150;not null;uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FeatureKeys []FeatureKey `gorm:"foreignKey:FeatureID"`
}

// FeatureKey belongs to exactly one feature and is shared by any number of
// products.
type FeatureKey struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:150;not null"`
	FeatureID uint64 `gorm:"not null;index"`
	Feature   *Feature
	CreatedAt time.Time
	UpdatedAt time.Time
	Products  []Product `gorm:"many2many:product_feature_keys;joinForeignKey:feature_key_id;joinReferences:product_id"`
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// TableName overrides the table name for Feature
func (Feature) TableName() string {
	return "features"
}

// TableName overrides the table name for FeatureKey
func (FeatureKey) TableName() string {
	return "feature_keys"
}
