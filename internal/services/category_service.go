package services

import (
	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/query"
	"github.com/localstore/storeapi/internal/types"
	"gorm.io/gorm"
)

// CategoryRequest carries the writable category fields. ParentID zero
// on modify clears the parent, turning the category into a root.
type CategoryRequest struct {
	Name     string  `json:"name"`
	ParentID *uint64 `json:"parentCategoryId"`
}

// CreateCategory inserts a category, optionally under an existing parent.
func CreateCategory(db *gorm.DB, req CategoryRequest) (*CategoryView, error) {
	if req.Name == "" {
		return nil, &types.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var view *CategoryView
	err := db.Transaction(func(tx *gorm.DB) error {
		category := models.Category{Name: req.Name}
		if req.ParentID != nil && *req.ParentID != 0 {
			parent, err := categoryByID(tx, *req.ParentID)
			if err != nil {
				return err
			}
			category.ParentID = &parent.ID
		}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		view = categoryView(&category)
		return nil
	})
	return view, err
}

// ModifyCategory applies a partial update. An empty name keeps the
// current one; a nil ParentID keeps the current parent; a zero ParentID
// clears it. Reparenting refuses any assignment that would close a cycle.
func ModifyCategory(db *gorm.DB, id uint64, req CategoryRequest) (*CategoryView, error) {
	var view *CategoryView
	err := db.Transaction(func(tx *gorm.DB) error {
		category, err := categoryForUpdate(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"version": category.Version + 1}
		if req.Name != "" {
			updates["name"] = req.Name
			category.Name = req.Name
		}
		if req.ParentID != nil {
			if *req.ParentID == 0 {
				updates["parent_id"] = nil
				category.ParentID = nil
			} else {
				parent, err := categoryByID(tx, *req.ParentID)
				if err != nil {
					return err
				}
				cycle, err := wouldCycle(tx, category.ID, parent.ID)
				if err != nil {
					return err
				}
				if cycle {
					return &types.ValidationError{
						Field:  "parentCategoryId",
						Reason: "assignment would create a cycle",
					}
				}
				updates["parent_id"] = parent.ID
				category.ParentID = &parent.ID
			}
		}

		result := tx.Model(category).Where("version = ?", category.Version).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &types.WriteConflictError{Entity: "category", ID: category.ID}
		}
		category.Version++
		view = categoryView(category)
		return nil
	})
	return view, err
}

// wouldCycle walks the ancestor chain starting at parentID and reports
// whether categoryID appears on it.
func wouldCycle(tx *gorm.DB, categoryID, parentID uint64) (bool, error) {
	current := parentID
	for {
		if current == categoryID {
			return true, nil
		}
		var ancestor models.Category
		if err := tx.Select("id", "parent_id").First(&ancestor, current).Error; err != nil {
			return false, err
		}
		if ancestor.ParentID == nil {
			return false, nil
		}
		current = *ancestor.ParentID
	}
}

// DeleteCategory removes a category. Owned products are detached, not
// deleted; child categories are promoted to roots.
func DeleteCategory(db *gorm.DB, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		category, err := categoryForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", category.ID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}

// GetCategory returns one category by id.
func GetCategory(db *gorm.DB, id uint64) (*CategoryView, error) {
	category, err := categoryByID(db, id)
	if err != nil {
		return nil, err
	}
	return categoryView(category), nil
}

// ListCategories runs a compiled category query and returns the page as
// flat views.
func ListCategories(db *gorm.DB, filter query.CategoryFilter, page query.Page) ([]CategoryView, error) {
	q, err := query.Categories(db, filter, page)
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, *categoryView(&categories[i]))
	}
	return views, nil
}

// CategoryTree runs a compiled category query and folds the page into a
// forest of nested nodes keyed by root category id.
func CategoryTree(db *gorm.DB, filter query.CategoryFilter, page query.Page) (map[uint64]*TreeNode, error) {
	q, err := query.Categories(db, filter, page)
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories), nil
}
