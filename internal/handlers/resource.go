package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/storage"
	"github.com/localstore/storeapi/internal/utils"
	"gorm.io/gorm"
)

// ResourceHandler handles image and file routes. Content goes through
// the blob store; only descriptors live in the database.
type ResourceHandler struct {
	DB    *gorm.DB
	Blobs *storage.Store
}

// UploadImage handles POST /api/images
// @Summary Upload an image
// @Tags Resources
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image content"
// @Param meta formData string false "Optional descriptor metadata (JSON document)"
// @Success 201 {object} services.ResourceView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /images [post]
func (h *ResourceHandler) UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, "missing file part", fiber.StatusBadRequest, "parse")
	}
	content, err := header.Open()
	if err != nil {
		return utils.ErrorResponse(c, "unreadable file part", fiber.StatusBadRequest, "parse")
	}
	defer content.Close()

	meta := []byte(c.FormValue("meta"))
	view, err := services.CreateImage(h.DB, h.Blobs, header.Filename, header.Header.Get("Content-Type"), meta, content)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// DownloadImage handles GET /api/images/:id/content
// @Summary Download image content
// @Tags Resources
// @Produce octet-stream
// @Param id path int true "Image ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /images/{id}/content [get]
func (h *ResourceHandler) DownloadImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, content, err := services.OpenImage(h.DB, h.Blobs, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if view.ContentType != "" {
		c.Set(fiber.HeaderContentType, view.ContentType)
	}
	return c.SendStream(content, int(view.Size))
}

// GetImage handles GET /api/images/:id
// @Summary Get an image descriptor
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} services.ResourceView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /images/{id} [get]
func (h *ResourceHandler) GetImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, err := services.GetImage(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteImage handles DELETE /api/images/:id
// @Summary Delete an image, its product edges and its content
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /images/{id} [delete]
func (h *ResourceHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteImage(h.DB, h.Blobs, id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}

// UploadFile handles POST /api/files
// @Summary Upload a file attachment
// @Tags Resources
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param meta formData string false "Optional descriptor metadata (JSON document)"
// @Success 201 {object} services.ResourceView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /files [post]
func (h *ResourceHandler) UploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, "missing file part", fiber.StatusBadRequest, "parse")
	}
	content, err := header.Open()
	if err != nil {
		return utils.ErrorResponse(c, "unreadable file part", fiber.StatusBadRequest, "parse")
	}
	defer content.Close()

	meta := []byte(c.FormValue("meta"))
	view, err := services.CreateFile(h.DB, h.Blobs, header.Filename, header.Header.Get("Content-Type"), meta, content)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusCreated)
}

// DownloadFile handles GET /api/files/:id/content
// @Summary Download file content
// @Tags Resources
// @Produce octet-stream
// @Param id path int true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id}/content [get]
func (h *ResourceHandler) DownloadFile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, content, err := services.OpenFile(h.DB, h.Blobs, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if view.ContentType != "" {
		c.Set(fiber.HeaderContentType, view.ContentType)
	}
	return c.SendStream(content, int(view.Size))
}

// GetFile handles GET /api/files/:id
// @Summary Get a file descriptor
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} services.ResourceView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id} [get]
func (h *ResourceHandler) GetFile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	view, err := services.GetFile(h.DB, id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// DeleteFile handles DELETE /api/files/:id
// @Summary Delete a file, its product edges and its content
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id} [delete]
func (h *ResourceHandler) DeleteFile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if err := services.DeleteFile(h.DB, h.Blobs, id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.MutationSuccessResponse(c)
}
