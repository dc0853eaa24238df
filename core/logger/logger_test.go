package logger_test

import (
	"net/http/httptest"
	"testing"

	"mapengine/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BuildsProductionAndDevelopmentConfigs(t *testing.T) {
	prod, err := logger.New(&logger.Config{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, prod)

	dev, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, dev)
}

func TestWithSceneID_AttachesField(t *testing.T) {
	base, err := logger.New(&logger.Config{Level: "info"})
	require.NoError(t, err)

	scoped := logger.WithSceneID(base, 42)
	assert.NotNil(t, scoped)
}

func TestWithRequestID_NoopWithoutLocal(t *testing.T) {
	base, err := logger.New(&logger.Config{Level: "info"})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/ping", func(c *fiber.Ctx) error {
		scoped := logger.WithRequestID(base, c)
		assert.NotNil(t, scoped)
		return c.SendString("ok")
	})

	_, err = app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
}
