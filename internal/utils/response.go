package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localstore/storeapi/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// ConflictResponse sends a write conflict error (409)
func ConflictResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"status":       fiber.StatusConflict,
		"message":      message,
		"ok":           false,
		"versionError": true,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"url":          c.OriginalURL(),
		"type":         "conflict",
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// MutationSuccessResponse sends a success response for mutations (POST/DELETE)
func MutationSuccessResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Success",
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DomainErrorResponse maps a typed service error onto the envelope.
// Unrecognized errors become a 500 without leaking internals.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	var (
		notFound  *types.NotFoundError
		exists    *types.AlreadyExistsError
		invalid   *types.ValidationError
		badQuery  *types.InvalidQueryError
		conflict  *types.WriteConflictError
		integrity *types.IntegrityError
		custom    *types.CustomError
	)
	switch {
	case errors.As(err, &notFound):
		return NotFoundResponse(c, notFound.Error())
	case errors.As(err, &exists):
		return ErrorResponse(c, exists.Error(), fiber.StatusConflict, "exists")
	case errors.As(err, &invalid):
		return ErrorResponse(c, invalid.Error(), fiber.StatusBadRequest, "validation")
	case errors.As(err, &badQuery):
		return ErrorResponse(c, badQuery.Error(), fiber.StatusBadRequest, "query")
	case errors.As(err, &conflict):
		return ConflictResponse(c, conflict.Error())
	case errors.As(err, &integrity):
		return ErrorResponse(c, integrity.Error(), fiber.StatusInternalServerError, "integrity")
	case errors.As(err, &custom):
		return ErrorResponse(c, custom.Message, custom.Code, custom.Type)
	default:
		return ErrorResponse(c, "internal error", fiber.StatusInternalServerError, "internal")
	}
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status       int    `json:"status"`
	Message      string `json:"message"`
	Ok           bool   `json:"ok"`
	Timestamp    string `json:"timestamp"`
	URL          string `json:"url"`
	Type         string `json:"type,omitempty"`
	VersionError bool   `json:"versionError,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
}
