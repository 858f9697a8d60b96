package services

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/storage"
	"github.com/localstore/storeapi/internal/types"
	"gorm.io/gorm"
)

// Images and files are two-part resources: a descriptor row in the
// database and the content in the blob store. Creation writes the blob
// first so a failed insert leaves no dangling descriptor; deletion
// removes the blob only after the descriptor delete commits.

// CreateImage stores image content and inserts its descriptor. Meta is
// an optional free-form JSON document kept with the descriptor.
func CreateImage(db *gorm.DB, blobs *storage.Store, fileName, contentType string, meta []byte, content io.Reader) (*ResourceView, error) {
	if fileName == "" {
		return nil, &types.ValidationError{Field: "fileName", Reason: "must not be empty"}
	}
	if len(meta) > 0 && !json.Valid(meta) {
		return nil, &types.ValidationError{Field: "meta", Reason: "must be a valid JSON document"}
	}
	key, size, err := blobs.Put(content)
	if err != nil {
		return nil, err
	}
	image := models.Image{
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		ObjectKey:   key,
		Meta:        models.NewJSON(meta),
	}
	if err := db.Create(&image).Error; err != nil {
		blobs.Remove(key)
		return nil, err
	}
	return imageView(&image), nil
}

// OpenImage returns an image descriptor plus a reader over its content.
func OpenImage(db *gorm.DB, blobs *storage.Store, id uint64) (*ResourceView, io.ReadCloser, error) {
	var image models.Image
	if err := db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, types.NotFound("image", id)
		}
		return nil, nil, err
	}
	content, err := blobs.Open(image.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return imageView(&image), content, nil
}

// DeleteImage removes an image descriptor, its product edges and its
// content.
func DeleteImage(db *gorm.DB, blobs *storage.Store, id uint64) error {
	var key string
	err := db.Transaction(func(tx *gorm.DB) error {
		var image models.Image
		if err := tx.First(&image, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("image", id)
			}
			return err
		}
		if err := tx.Model(&image).Association("Products").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&image).Error; err != nil {
			return err
		}
		key = image.ObjectKey
		return nil
	})
	if err != nil {
		return err
	}
	return blobs.Remove(key)
}

// GetImage returns an image descriptor without touching the blob store.
func GetImage(db *gorm.DB, id uint64) (*ResourceView, error) {
	var image models.Image
	if err := db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("image", id)
		}
		return nil, err
	}
	return imageView(&image), nil
}

// CreateFile stores file content and inserts its descriptor. Meta is an
// optional free-form JSON document kept with the descriptor.
func CreateFile(db *gorm.DB, blobs *storage.Store, fileName, contentType string, meta []byte, content io.Reader) (*ResourceView, error) {
	if fileName == "" {
		return nil, &types.ValidationError{Field: "fileName", Reason: "must not be empty"}
	}
	if len(meta) > 0 && !json.Valid(meta) {
		return nil, &types.ValidationError{Field: "meta", Reason: "must be a valid JSON document"}
	}
	key, size, err := blobs.Put(content)
	if err != nil {
		return nil, err
	}
	file := models.File{
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		ObjectKey:   key,
		Meta:        models.NewJSON(meta),
	}
	if err := db.Create(&file).Error; err != nil {
		blobs.Remove(key)
		return nil, err
	}
	return fileView(&file), nil
}

// OpenFile returns a file descriptor plus a reader over its content.
func OpenFile(db *gorm.DB, blobs *storage.Store, id uint64) (*ResourceView, io.ReadCloser, error) {
	var file models.File
	if err := db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, types.NotFound("file", id)
		}
		return nil, nil, err
	}
	content, err := blobs.Open(file.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return fileView(&file), content, nil
}

// DeleteFile removes a file descriptor, its product edges and its
// content.
func DeleteFile(db *gorm.DB, blobs *storage.Store, id uint64) error {
	var key string
	err := db.Transaction(func(tx *gorm.DB) error {
		var file models.File
		if err := tx.First(&file, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("file", id)
			}
			return err
		}
		if err := tx.Model(&file).Association("Products").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&file).Error; err != nil {
			return err
		}
		key = file.ObjectKey
		return nil
	})
	if err != nil {
		return err
	}
	return blobs.Remove(key)
}

// GetFile returns a file descriptor without touching the blob store.
func GetFile(db *gorm.DB, id uint64) (*ResourceView, error) {
	var file models.File
	if err := db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("file", id)
		}
		return nil, err
	}
	return fileView(&file), nil
}

func imageView(image *models.Image) *ResourceView {
	return &ResourceView{
		ID:          image.ID,
		FileName:    image.FileName,
		ContentType: image.ContentType,
		Size:        image.Size,
		Meta:        image.Meta,
	}
}

func fileView(file *models.File) *ResourceView {
	return &ResourceView{
		ID:          file.ID,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        file.Size,
		Meta:        file.Meta,
	}
}
