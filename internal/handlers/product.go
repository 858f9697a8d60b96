package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/utils"
	"gorm.io/gorm"
)

// ProductHandler handles product routes
type ProductHandler struct {
	DB *gorm.DB
}

// ListProducts handles GET /api/products
// @Summary List products
// @Description List products matching optional filter criteria, paged and sorted
// @Tags Products
// @Accept json
// @Produce json
// @Param name query string false "Substring match on product name"
// @Param category query string false "Exact category name"
// @Param parentCategory query string false "Exact parent category name"
// @Param feature query string false "Feature name the product carries a key under"
// @Param price query int false "Exact price match"
// @Param pageNumber query int false "Zero-based page number"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Success 200 {array} services.ProductView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	page, err := parsePage(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	views, err := services.ListProducts(h.DB, filter, page)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// GetProduct handles GET /api/products/:id
// @Summary Get one product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} services.ProductView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, err := services.GetProduct(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// CreateProduct handles POST /api/products
// @Summary Create a product
// @Description Create a product in an existing category, wiring referenced feature keys, images and files
// @Tags Products
// @Accept json
// @Produce json
// @Param product body services.ProductRequest true "Product fields"
// @Success 201 {object} services.ProductView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req services.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.CreateProduct(h.DB, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// ModifyProduct handles PUT /api/products/:id
// @Summary Modify a product
// @Description Partial scalar update; non-empty id lists replace the whole association set
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body services.ProductRequest true "Product fields"
// @Success 200 {object} services.ProductView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products/{id} [put]
func (h *ProductHandler) ModifyProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req services.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.ModifyProduct(h.DB, id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteProduct handles DELETE /api/products/:id
// @Summary Delete a product
// @Description Open cart lines for the product are dropped; a product referenced by ordered cards cannot be deleted
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteProduct(h.DB, id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// AddFeatureKey handles POST /api/products/:id/feature-keys/:keyId
// @Summary Attach a feature key to a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param keyId path int true "Feature key ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products/{id}/feature-keys/{keyId} [post]
func (h *ProductHandler) AddFeatureKey(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	keyID, err := parseID(c, "keyId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.AddFeatureKeyToProduct(h.DB, id, keyID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveFeatureKey handles DELETE /api/products/:id/feature-keys/:keyId
// @Summary Detach a feature key from a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param keyId path int true "Feature key ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products/{id}/feature-keys/{keyId} [delete]
func (h *ProductHandler) RemoveFeatureKey(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	keyID, err := parseID(c, "keyId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.RemoveFeatureKeyFromProduct(h.DB, id, keyID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// AddImage handles POST /api/products/:id/images/:imageId
// @Summary Attach an image to a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param imageId path int true "Image ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products/{id}/images/{imageId} [post]
func (h *ProductHandler) AddImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	imageID, err := parseID(c, "imageId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.AddImageToProduct(h.DB, id, imageID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveImage handles DELETE /api/products/:id/images/:imageId
// @Summary Detach an image from a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param imageId path int true "Image ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products/{id}/images/{imageId} [delete]
func (h *ProductHandler) RemoveImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	imageID, err := parseID(c, "imageId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.RemoveImageFromProduct(h.DB, id, imageID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// AddFile handles POST /api/products/:id/files/:fileId
// @Summary Attach a file to a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param fileId path int true "File ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products/{id}/files/{fileId} [post]
func (h *ProductHandler) AddFile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	fileID, err := parseID(c, "fileId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.AddFileToProduct(h.DB, id, fileID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveFile handles DELETE /api/products/:id/files/:fileId
// @Summary Detach a file from a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param fileId path int true "File ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products/{id}/files/{fileId} [delete]
func (h *ProductHandler) RemoveFile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	fileID, err := parseID(c, "fileId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.RemoveFileFromProduct(h.DB, id, fileID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}
