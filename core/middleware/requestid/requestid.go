// Package requestid generates a correlation id for every request handled
// by the debug server, the HTTP analogue of the scene lifecycle's scene id.
package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	headerName = "X-Request-Id"
	localsKey  = "request_id"
)

// New returns middleware that assigns a request id to every request,
// reusing an inbound X-Request-Id header when the caller already supplied
// one (e.g. a reverse proxy stitching traces together).
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(localsKey, id)
		c.Set(headerName, id)
		return c.Next()
	}
}
