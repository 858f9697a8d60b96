package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/utils"
	"gorm.io/gorm"
)

// FeatureHandler handles feature and feature-key routes
type FeatureHandler struct {
	DB *gorm.DB
}

// ListFeatures handles GET /api/features
// @Summary List features with their keys
// @Tags Features
// @Accept json
// @Produce json
// @Success 200 {array} services.FeatureView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /features [get]
func (h *FeatureHandler) ListFeatures(c *fiber.Ctx) error {
	views, err := services.ListFeatures(h.DB)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, views, fiber.StatusOK)
}

// GetFeature handles GET /api/features/:id
// @Summary Get one feature with its keys
// @Tags Features
// @Accept json
// @Produce json
// @Param id path int true "Feature ID"
// @Success 200 {object} services.FeatureView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /features/{id} [get]
func (h *FeatureHandler) GetFeature(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, err := services.GetFeature(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// CreateFeature handles POST /api/features
// @Summary Create a feature
// @Tags Features
// @Accept json
// @Produce json
// @Param feature body services.FeatureRequest true "Feature fields"
// @Success 201 {object} services.FeatureView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /features [post]
func (h *FeatureHandler) CreateFeature(c *fiber.Ctx) error {
	var req services.FeatureRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.CreateFeature(h.DB, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// ModifyFeature handles PUT /api/features/:id
// @Summary Rename a feature
// @Tags Features
// @Accept json
// @Produce json
// @Param id path int true "Feature ID"
// @Param feature body services.FeatureRequest true "Feature fields"
// @Success 200 {object} services.FeatureView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /features/{id} [put]
func (h *FeatureHandler) ModifyFeature(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req services.FeatureRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.ModifyFeature(h.DB, id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteFeature handles DELETE /api/features/:id
// @Summary Delete a feature together with its keys
// @Tags Features
// @Accept json
// @Produce json
// @Param id path int true "Feature ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /features/{id} [delete]
func (h *FeatureHandler) DeleteFeature(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteFeature(h.DB, id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// CreateFeatureKey handles POST /api/features/:id/keys
// @Summary Create a feature key under a feature
// @Tags Features
// @Accept json
// @Produce json
// @Param id path int true "Feature ID"
// @Param key body services.FeatureKeyRequest true "Feature key fields"
// @Success 201 {object} services.FeatureKeyView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /features/{id}/keys [post]
func (h *FeatureHandler) CreateFeatureKey(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req services.FeatureKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.CreateFeatureKey(h.DB, id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// ModifyFeatureKey handles PUT /api/features/:id/keys/:keyId
// @Summary Rename a feature key
// @Tags Features
// @Accept json
// @Produce json
// @Param id path int true "Feature ID"
// @Param keyId path int true "Feature key ID"
// @Param key body services.FeatureKeyRequest true "Feature key fields"
// @Success 200 {object} services.FeatureKeyView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /features/{id}/keys/{keyId} [put]
func (h *FeatureHandler) ModifyFeatureKey(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	keyID, err := parseID(c, "keyId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	var req services.FeatureKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "malformed request body", fiber.StatusBadRequest, "parse")
	}
	view, err := services.ModifyFeatureKey(h.DB, id, keyID, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteFeatureKey handles DELETE /api/features/keys/:keyId
// @Summary Delete a feature key and detach it from every product
// @Tags Features
// @Accept json
// @Produce json
// @Param keyId path int true "Feature key ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /features/keys/{keyId} [delete]
func (h *FeatureHandler) DeleteFeatureKey(c *fiber.Ctx) error {
	keyID, err := parseID(c, "keyId")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteFeatureKey(h.DB, keyID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}
