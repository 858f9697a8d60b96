package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionMiddleware reads the X-Api-Version header storefront clients
// send and keeps it in the request context for handlers that branch on
// it. Absent header means the current version.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Older storefront builds send the short form
		if version == "1.0" {
			version = "1.0.0"
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}
