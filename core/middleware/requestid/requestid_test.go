package requestid_test

import (
	"net/http/httptest"
	"testing"

	"mapengine/core/middleware/requestid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AssignsIDWhenMissing(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestNew_ReusesInboundHeader(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "upstream-id", resp.Header.Get("X-Request-Id"))
}
