package mapfacade

import (
	"mapengine/scene/lifecycle"
	"mapengine/scene/model"
	"mapengine/tile/source"
)

// Renderer is the external collaborator that issues GPU draw passes for a
// ready scene (spec §1 Non-goal: "rendering primitives and GPU state
// management" stays out of this module). Render calls it once per tick
// when a scene is ready; a nil Renderer makes Render a no-op, which is
// how headless/test callers exercise the façade without a graphics
// context.
type Renderer interface {
	DrawScene(s *model.Scene, camera *Camera)
}

// Map is the Map Façade (spec §4.10): the single public entry point.
// All mutating client calls enqueue their effect through a main-thread
// job queue so the scene thread observes a consistent state at frame
// boundaries; Update drains that queue once per tick.
type Map struct {
	lifecycle *lifecycle.Lifecycle
	camera    *Camera
	jobs      jobQueue
	renderer  Renderer
}

// New builds a Map façade around an already-constructed Scene Lifecycle.
// renderer may be nil for headless use (tests, the debug CLI). The
// lifecycle's tile-prefetch view provider is wired to this façade's
// camera, so an incoming scene's tile sources start fetching against the
// live view as soon as they're registered (spec §4.9 step 2), not only
// once Update ticks a ready scene.
func New(lc *lifecycle.Lifecycle, camera *Camera, renderer Renderer) *Map {
	lc.SetViewProvider(camera.view)
	return &Map{lifecycle: lc, camera: camera, renderer: renderer}
}

// LoadScene starts loading a scene from opts. If async, the new scene
// becomes current immediately and this returns its id right away,
// notified through OnSceneReady once built; otherwise it blocks until
// the scene is ready and returns its id.
func (m *Map) LoadScene(opts model.SceneOptions, async bool) uint64 {
	if async {
		return m.lifecycle.LoadAsync(opts)
	}
	return m.lifecycle.LoadSync(opts).ID()
}

// OnSceneReady registers the listener invoked once a scene finishes
// loading (spec §4.9/§6).
func (m *Map) OnSceneReady(fn func(id uint64, errs []model.SceneError)) {
	m.lifecycle.SetOnSceneReady(fn)
}

// Resize updates the viewport size in tile units at the camera's current
// zoom, affecting which tiles the Tile Manager considers visible.
func (m *Map) Resize(widthTiles, heightTiles float64) {
	m.jobs.post(func() { m.camera.SetViewportSize(widthTiles, heightTiles) })
}

// Camera returns the façade's camera for read-only access (position,
// zoom, pitch) outside the job queue; mutation goes through JumpCamera/
// EaseCamera so scene-thread reads never race a partial camera update.
func (m *Map) Camera() *Camera { return m.camera }

// JumpCamera and EaseCamera enqueue a camera move for the next Update.
func (m *Map) JumpCamera(x, y, zoom float64) {
	m.jobs.post(func() { m.camera.Jump(x, y, zoom) })
}

func (m *Map) EaseCamera(x, y, zoom, durationSeconds float64) {
	m.jobs.post(func() { m.camera.EaseTo(x, y, zoom, durationSeconds) })
}

// AddTileSource enqueues registration of src against the current scene.
func (m *Map) AddTileSource(src *source.Source) {
	m.jobs.post(func() {
		if s := m.lifecycle.Current(); s != nil {
			s.RegisterTileSource(src)
		}
	})
}

// RemoveTileSource enqueues unregistration of the tile source id against
// the current scene.
func (m *Map) RemoveTileSource(id string) {
	m.jobs.post(func() {
		if s := m.lifecycle.Current(); s != nil {
			if _, ok := s.TileSource(id); ok {
				s.TileManager().StageRemoveSource(id)
			}
		}
	})
}

// AddMarker enqueues creation of a marker on the current scene and
// returns a channel delivering its assigned id once the job runs.
func (m *Map) AddMarker(lng, lat float64, data any) <-chan uint64 {
	result := make(chan uint64, 1)
	m.jobs.post(func() {
		var id uint64
		if s := m.lifecycle.Current(); s != nil {
			id = s.Markers().Add(lng, lat, data)
		}
		result <- id
	})
	return result
}

// RemoveMarker enqueues removal of marker id from the current scene.
func (m *Map) RemoveMarker(id uint64) {
	m.jobs.post(func() {
		if s := m.lifecycle.Current(); s != nil {
			s.Markers().Remove(id)
		}
	})
}

// ClearMarkers enqueues removal of every marker on the current scene.
func (m *Map) ClearMarkers() {
	m.jobs.post(func() {
		if s := m.lifecycle.Current(); s != nil {
			s.Markers().Clear()
		}
	})
}

// Update drains the job queue, advances the camera ease, and — if the
// current scene is ready — ticks its Tile Manager against the camera's
// view (spec §4.10). It reports whether the current scene is ready to
// render this tick.
func (m *Map) Update(dt float64) bool {
	m.jobs.drain()
	m.camera.advance(dt)

	s := m.lifecycle.Current()
	if s == nil || s.State() != model.StateReady {
		return false
	}
	s.TileManager().Update(m.camera.view())
	return true
}

// Render issues one draw pass through the external Renderer if the
// current scene is ready; a nil Renderer (headless use) makes this a
// no-op. Callers are expected to call Update first each tick.
func (m *Map) Render() {
	if m.renderer == nil {
		return
	}
	s := m.lifecycle.Current()
	if s == nil || s.State() != model.StateReady {
		return
	}
	m.renderer.DrawScene(s, m.camera)
}
