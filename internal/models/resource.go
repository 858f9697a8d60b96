package models

import (
	"time"
)

// Image is a binary-resource descriptor. The content itself lives in the
// blob store under ObjectKey; products only reference the descriptor.
type Image struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	FileName    string `gorm:"size:255;not null"`
	ContentType string `gorm:"size:100"`
	Size        int64
	ObjectKey   string `gorm:"type:char(36);uniqueIndex;not null"`
	Meta        JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Products    []Product `gorm:"many2many:product_images;joinForeignKey:image_id;joinReferences:product_id"`
}

// File is a binary-resource descriptor for non-image attachments
// (manuals, spec sheets).
type File struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	FileName    string `gorm:"size:255;not null"`
	ContentType string `gorm:"size:100"`
	Size        int64
	ObjectKey   string `gorm:"type:char(36);uniqueIndex;not null"`
	Meta        JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Products    []Product `gorm:"many2many:product_files;joinForeignKey:file_id;joinReferences:product_id"`
}

// TableName overrides the table name for Image
func (Image) TableName() string {
	return "images"
}

// TableName overrides the table name for File
func (File) TableName() string {
	return "files"
}
