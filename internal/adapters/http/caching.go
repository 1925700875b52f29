package http

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses and answers
// If-None-Match with 304 using a weak ETag of the body.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if c.Method() != fiber.MethodGet {
			return nil
		}

		if c.GetRespHeader(fiber.HeaderCacheControl) == "" {
			switch c.Route().Path {
			case "/v1/coverage", "/v1/coverage/:name":
				c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
			case "/v1/health", "/v1/ready":
				c.Set(fiber.HeaderCacheControl, "public, max-age=10")
			case "/metrics":
				c.Set(fiber.HeaderCacheControl, "no-cache")
			}
		}

		body := c.Response().Body()
		if c.Response().StatusCode() != fiber.StatusOK || len(body) == 0 {
			return nil
		}
		h := sha256.Sum256(body)
		etag := `W/"` + hex.EncodeToString(h[:8]) + `"`
		c.Set(fiber.HeaderETag, etag)
		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			c.Status(fiber.StatusNotModified)
			c.Response().ResetBody()
		}
		return nil
	}
}
