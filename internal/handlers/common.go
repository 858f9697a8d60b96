package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/query"
	"github.com/localstore/storeapi/internal/types"
)

// parseID extracts a positive numeric path parameter.
func parseID(c *fiber.Ctx, name string) (uint64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &types.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}

// parsePage reads the paging query parameters. Missing values stay zero
// and pick up defaults during compilation; malformed numbers are
// rejected here so the error names the offending parameter.
func parsePage(c *fiber.Ctx) (query.Page, error) {
	page := query.Page{SortBy: c.Query("sortBy")}

	if raw := c.Query("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, &types.InvalidQueryError{Reason: "pageNumber must be an integer"}
		}
		page.Number = n
	}
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, &types.InvalidQueryError{Reason: "pageSize must be an integer"}
		}
		page.Size = &n
	}
	return page, nil
}

// parseCategoryFilter reads category list criteria from the query string.
func parseCategoryFilter(c *fiber.Ctx) query.CategoryFilter {
	return query.CategoryFilter{
		Name:           c.Query("name"),
		ParentCategory: c.Query("parentCategory"),
	}
}

// parseProductFilter reads product list criteria from the query string.
func parseProductFilter(c *fiber.Ctx) (query.ProductFilter, error) {
	filter := query.ProductFilter{
		Name:           c.Query("name"),
		Category:       c.Query("category"),
		ParentCategory: c.Query("parentCategory"),
		Feature:        c.Query("feature"),
	}
	if raw := c.Query("price"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, &types.InvalidQueryError{Reason: "price must be an integer"}
		}
		filter.Price = &price
	}
	return filter, nil
}
