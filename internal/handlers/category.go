package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/utils"
	"gorm.io/gorm"
)

// CategoryHandler handles category routes
type CategoryHandler struct {
	DB *gorm.DB
}

// ListCategories handles GET /api/categories
// @Summary List categories
// @Description List categories matching optional filter criteria, paged and sorted
// @Tags Categories
// @Accept json
// @Produce json
// @Param name query string false "Substring match on category name"
// @Param parentCategory query string false "Exact parent category name"
// @Param pageNumber query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Success 200 {array} services.CategoryView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	views, err := services.ListCategories(h.DB, parseCategoryFilter(c), page)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// CategoryTree handles GET /api/categories/tree
// @Summary Get the category tree
// @Description Map from root category id to its nested subtree, for categories matching optional filter criteria
// @Tags Categories
// @Accept json
// @Produce json
// @Param name query string false "Substring match on category name"
// @Param parentCategory query string false "Exact parent category name"
// @Param pageNumber query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Success 200 {object} map[string]services.TreeNode
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /categories/tree [get]
func (h *CategoryHandler) CategoryTree(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	tree, err := services.CategoryTree(h.DB, parseCategoryFilter(c), page)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, tree, fiber.StatusOK)
}

// GetCategory handles GET /api/categories/:id
// @Summary Get one category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} services.CategoryView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, err := services.GetCategory(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// CreateCategory handles POST /api/categories
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body services.CategoryRequest true "Category fields"
// @Success 201 {object} services.CategoryView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req services.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.CreateCategory(h.DB, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// ModifyCategory handles PUT /api/categories/:id
// @Summary Modify a category
// @Description Partial update; reparenting that would create a cycle is rejected
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body services.CategoryRequest true "Category fields"
// @Success 200 {object} services.CategoryView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [put]
func (h *CategoryHandler) ModifyCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req services.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.ModifyCategory(h.DB, id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary Delete a category
// @Description Owned products are detached, child categories become roots
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteCategory(h.DB, id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// AddProduct handles POST /api/categories/:id/products/:productId
// @Summary Move a product into a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /categories/{id}/products/{productId} [post]
func (h *CategoryHandler) AddProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	productID, err := parseID(c, "productId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.AddProductToCategory(h.DB, id, productID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveProduct handles DELETE /api/categories/:id/products/:productId
// @Summary Detach a product from a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /categories/{id}/products/{productId} [delete]
func (h *CategoryHandler) RemoveProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	productID, err := parseID(c, "productId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.RemoveProductFromCategory(h.DB, id, productID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}
