package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case strings.HasPrefix(path, "/v1/cities"):
			ttl = "public, max-age=3600" // fixed catalog

		case strings.HasPrefix(path, "/v1/offers"), strings.HasPrefix(path, "/v1/faqs"):
			ttl = "public, max-age=600"

		case path == "/v1/dates/shortcuts":
			ttl = "private, max-age=60" // depends on today's date

		case strings.HasPrefix(path, "/v1/searches"),
			strings.HasPrefix(path, "/v1/seatmaps"),
			strings.HasPrefix(path, "/v1/bookings"),
			strings.HasPrefix(path, "/v1/tracking"),
			strings.HasPrefix(path, "/v1/payments"),
			strings.HasPrefix(path, "/v1/notifications"):
			ttl = "no-store" // per-client state that changes under the caller

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
