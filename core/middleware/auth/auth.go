// Package auth implements API key validation for the debug server.
package auth

import "github.com/gofiber/fiber/v2"

// Config controls the auth middleware.
type Config struct {
	// ApiKey is the expected value of the X-Api-Key header. An empty
	// ApiKey disables auth entirely, letting debugserver run key-free in
	// local development.
	ApiKey string
}

// New returns middleware that rejects requests missing a matching
// X-Api-Key header. When cfg.ApiKey is empty every request passes through.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if c.Get("X-Api-Key") != cfg.ApiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing api key",
			})
		}
		return c.Next()
	}
}
