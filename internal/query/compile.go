package query

import (
	"fmt"

	"github.com/localstore/storeapi/internal/models"
	"github.com/localstore/storeapi/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Sort keys are request-level field names; values are the qualified
// columns they resolve to. Qualification matters because the compiled
// queries join tables that also carry a name column.
var productSortColumns = map[string]string{
	"id":        "products.id",
	"name":      "products.name",
	"codeUnit":  "products.code_unit",
	"price":     "products.price",
	"maxPrice":  "products.max_price",
	"createdAt": "products.created_at",
}

var categorySortColumns = map[string]string{
	"id":        "categories.id",
	"name":      "categories.name",
	"createdAt": "categories.created_at",
}

var userSortColumns = map[string]string{
	"id":        "users.id",
	"firstName": "users.first_name",
	"lastName":  "users.last_name",
	"email":     "users.email",
	"createdAt": "users.created_at",
}

// Categories compiles a category filter plus page request into a query.
// The caller runs Find on the result; compilation itself is read-only.
func Categories(db *gorm.DB, filter CategoryFilter, page Page) (*gorm.DB, error) {
	q := db.Clauses(hints.CommentBefore("select", "listCategories")).
		Model(&models.Category{})

	if filter.Name != "" {
		q = q.Where("categories.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.ParentCategory != "" {
		q = q.Joins("JOIN categories parent ON parent.id = categories.parent_id").
			Where("parent.name = ?", filter.ParentCategory)
	}

	return applyPage(q, page, categorySortColumns)
}

// Products compiles a product filter plus page request into a query.
// Category and parent-category criteria join through the category forest;
// the feature criterion joins through feature keys to features and
// deduplicates products carrying several keys under the same feature.
func Products(db *gorm.DB, filter ProductFilter, page Page) (*gorm.DB, error) {
	q := db.Clauses(hints.CommentBefore("select", "listProducts")).
		Model(&models.Product{})

	if filter.Name != "" {
		q = q.Where("products.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Price != nil {
		q = q.Where("products.price = ?", *filter.Price)
	}

	if filter.Category != "" || filter.ParentCategory != "" {
		q = q.Joins("JOIN categories cat ON cat.id = products.category_id")
	}
	if filter.Category != "" {
		q = q.Where("cat.name = ?", filter.Category)
	}
	if filter.ParentCategory != "" {
		q = q.Joins("JOIN categories parent ON parent.id = cat.parent_id").
			Where("parent.name = ?", filter.ParentCategory)
	}

	if filter.Feature != "" {
		q = q.Joins("JOIN product_feature_keys pfk ON pfk.product_id = products.id").
			Joins("JOIN feature_keys fk ON fk.id = pfk.feature_key_id").
			Joins("JOIN features f ON f.id = fk.feature_id").
			Where("f.name = ?", filter.Feature).
			Distinct("products.*")
	}

	return applyPage(q, page, productSortColumns)
}

// Users compiles a plain paginated, sorted user listing.
func Users(db *gorm.DB, page Page) (*gorm.DB, error) {
	q := db.Clauses(hints.CommentBefore("select", "listUsers")).
		Model(&models.User{})
	if page.SortBy == "" {
		page.SortBy = "firstName"
	}
	return applyPage(q, page, userSortColumns)
}

// applyPage validates the page request against the sort allowlist and
// attaches ORDER BY / LIMIT / OFFSET. Absent size and sort fall back to
// defaults; an explicitly supplied non-positive size, a negative page
// number or an unknown sort field is rejected.
func applyPage(q *gorm.DB, page Page, columns map[string]string) (*gorm.DB, error) {
	if page.Number < 0 {
		return nil, &types.InvalidQueryError{
			Reason: fmt.Sprintf("pageNumber %d must not be negative", page.Number),
		}
	}
	size := DefaultPageSize
	if page.Size != nil {
		if *page.Size <= 0 {
			return nil, &types.InvalidQueryError{
				Reason: fmt.Sprintf("pageSize %d must be positive", *page.Size),
			}
		}
		size = *page.Size
	}
	if page.SortBy == "" {
		page.SortBy = DefaultSortBy
	}

	column, ok := columns[page.SortBy]
	if !ok {
		return nil, &types.InvalidQueryError{
			Reason: fmt.Sprintf("unknown sort field %q", page.SortBy),
		}
	}

	return q.Order(column + " ASC").
		Offset(page.Number * size).
		Limit(size), nil
}
