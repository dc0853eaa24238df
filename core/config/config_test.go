package config_test

import (
	"testing"

	"mapengine/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(".")
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.Scene.PixelScale)
	assert.True(t, cfg.Scene.Async)
	assert.Equal(t, 256, cfg.TileCache.MaxTiles)
	assert.Equal(t, 2, cfg.TileManager.EvictionHorizonFrames)
	assert.Equal(t, 4, cfg.Workers.DecodePoolSize)
	assert.Equal(t, 30, cfg.Platform.HTTPTimeoutSeconds)
	assert.Equal(t, "sqlite", cfg.Telemetry.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Debug.Enabled)
	assert.False(t, cfg.Debug.RequiresAuth())
}

func TestLoadConfig_EnvOverridesDefault(t *testing.T) {
	t.Setenv("SCENE_ROOT_URL", "https://example.test/scene.json")
	t.Setenv("DEBUG_API_KEY", "secret")

	cfg, err := config.LoadConfig(".")
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/scene.json", cfg.Scene.RootURL)
	assert.True(t, cfg.Debug.RequiresAuth())
}
