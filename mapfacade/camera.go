package mapfacade

import (
	"mapengine/tile/manager"
)

// Camera holds the view parameters the Tile Manager schedules against
// (manager.View) plus an optional ease-to-target animation, advanced once
// per Update(dt) tick on the main thread.
type Camera struct {
	centerX, centerY float64
	zoom             float64
	pitch            float64
	viewportW        float64
	viewportH        float64

	easing    bool
	fromX     float64
	fromY     float64
	fromZoom  float64
	toX       float64
	toY       float64
	toZoom    float64
	elapsed   float64
	durationS float64
}

// NewCamera builds a Camera centered at the given world tile coordinates.
func NewCamera(centerX, centerY, zoom float64) *Camera {
	return &Camera{centerX: centerX, centerY: centerY, zoom: zoom}
}

// SetViewportSize records the viewport dimensions in tile units at the
// current zoom, used to compute the visible-tile set.
func (c *Camera) SetViewportSize(widthTiles, heightTiles float64) {
	c.viewportW = widthTiles
	c.viewportH = heightTiles
}

// Position returns the camera's current center and zoom.
func (c *Camera) Position() (x, y, zoom float64) { return c.centerX, c.centerY, c.zoom }

// Pitch returns the camera's current pitch in radians.
func (c *Camera) Pitch() float64 { return c.pitch }

// SetPitch sets the camera's pitch directly (not eased).
func (c *Camera) SetPitch(radians float64) { c.pitch = radians }

// Jump moves the camera immediately, cancelling any in-progress ease.
func (c *Camera) Jump(x, y, zoom float64) {
	c.easing = false
	c.centerX, c.centerY, c.zoom = x, y, zoom
}

// EaseTo begins a smooth transition to (x, y, zoom) over duration,
// replacing any ease already in progress.
func (c *Camera) EaseTo(x, y, zoom float64, duration float64) {
	if duration <= 0 {
		c.Jump(x, y, zoom)
		return
	}
	c.easing = true
	c.fromX, c.fromY, c.fromZoom = c.centerX, c.centerY, c.zoom
	c.toX, c.toY, c.toZoom = x, y, zoom
	c.elapsed = 0
	c.durationS = duration
}

// advance steps the in-progress ease by dt seconds, using a smoothstep
// curve (matching the teacher's reconcile plan's gradual-apply pacing
// rather than a linear lerp, for a less mechanical camera feel).
func (c *Camera) advance(dt float64) {
	if !c.easing {
		return
	}
	c.elapsed += dt
	t := c.elapsed / c.durationS
	if t >= 1 {
		c.centerX, c.centerY, c.zoom = c.toX, c.toY, c.toZoom
		c.easing = false
		return
	}
	s := t * t * (3 - 2*t)
	c.centerX = lerp(c.fromX, c.toX, s)
	c.centerY = lerp(c.fromY, c.toY, s)
	c.zoom = lerp(c.fromZoom, c.toZoom, s)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// view snapshots the camera into a manager.View for the Tile Manager's
// per-frame scheduling pass.
func (c *Camera) view() manager.View {
	return manager.View{
		CenterX:             c.centerX,
		CenterY:             c.centerY,
		Zoom:                c.zoom,
		Pitch:               c.pitch,
		ViewportWidthTiles:  c.viewportW,
		ViewportHeightTiles: c.viewportH,
	}
}

// Easing reports whether a camera ease is currently in progress.
func (c *Camera) Easing() bool { return c.easing }
