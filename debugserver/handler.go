package debugserver

import (
	"mapengine/scene/model"
	"mapengine/tile/cache"

	"github.com/gofiber/fiber/v2"
)

// SceneProvider is the subset of scene/lifecycle.Lifecycle the debug
// server depends on.
type SceneProvider interface {
	Current() *model.Scene
	Cache() *cache.Cache
}

// Handler serves the debug/introspection endpoints (spec §12.3).
type Handler struct {
	scenes SceneProvider
}

// NewHandler builds a Handler over scenes.
func NewHandler(scenes SceneProvider) *Handler {
	return &Handler{scenes: scenes}
}

// RegisterRoutes mounts the debug routes under /debug.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/debug")
	group.Get("/scene", h.HandleScene)
	group.Get("/tilecache/stats", h.HandleTileCacheStats)
	group.Get("/tilesources/:id/tileset", h.HandleTileSetSnapshot)
}

// Name implements core/loader.Feature.
func (h *Handler) Name() string { return "debug" }

// IsEnabled implements core/loader.Feature; the debug surface is always
// on once the server itself has been started.
func (h *Handler) IsEnabled() bool { return true }

// Load implements core/loader.Feature, delegating to RegisterRoutes.
func (h *Handler) Load(router fiber.Router) error {
	h.RegisterRoutes(router)
	return nil
}

// HandleScene reports the current scene's id, load state, and error
// list.
// @Summary Current scene status
// @Tags debug
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /debug/scene [get]
func (h *Handler) HandleScene(c *fiber.Ctx) error {
	s := h.scenes.Current()
	if s == nil {
		return c.JSON(fiber.Map{"scene": nil})
	}
	return c.JSON(fiber.Map{
		"id":     s.ID(),
		"state":  s.State().String(),
		"errors": s.Errors(),
	})
}

// HandleTileCacheStats reports the shared Tile Cache's Stats.
// @Summary Tile cache stats
// @Tags debug
// @Produce json
// @Success 200 {object} cache.Stats
// @Router /debug/tilecache/stats [get]
func (h *Handler) HandleTileCacheStats(c *fiber.Ctx) error {
	return c.JSON(h.scenes.Cache().Stats())
}

// HandleTileSetSnapshot reports the per-TileID state of one tile source
// on the current scene.
// @Summary Tile source tileset snapshot
// @Tags debug
// @Produce json
// @Param id path string true "tile source id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /debug/tilesources/{id}/tileset [get]
func (h *Handler) HandleTileSetSnapshot(c *fiber.Ctx) error {
	s := h.scenes.Current()
	if s == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no current scene"})
	}
	src, ok := s.TileSource(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown tile source"})
	}

	snapshot := s.TileManager().TileSetSnapshot(src.ID())
	out := make(map[string]string, len(snapshot))
	for id, state := range snapshot {
		out[id.String()] = state.String()
	}
	return c.JSON(out)
}
