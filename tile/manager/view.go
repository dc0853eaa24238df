package manager

import (
	"math"

	"mapengine/tile/tileid"
)

// View is the camera state the tile manager schedules against. CenterX/Y
// are world tile coordinates at Zoom (Web-Mercator tile units, fractional
// — e.g. 3.5 means halfway through tile column 3).
type View struct {
	CenterX             float64
	CenterY             float64
	Zoom                float64
	Pitch               float64
	ViewportWidthTiles  float64
	ViewportHeightTiles float64
}

// visibleTile pairs a TileID with its priority input: distance from the
// viewport center, sorted ascending (all tiles of one pass share a zoom).
type visibleTile struct {
	id       tileid.ID
	distance float64
}

// integerZoom clamps the view's rounded zoom to maxZoom and returns the
// scale factor to apply to CenterX/Y when the clamp changed the zoom.
func (v View) integerZoom(maxZoom uint8) (uint8, float64) {
	rounded := int(math.Round(v.Zoom))
	if rounded < 0 {
		rounded = 0
	}
	z := rounded
	if z > int(maxZoom) {
		z = int(maxZoom)
	}
	scale := math.Pow(2, float64(z-rounded))
	return uint8(z), scale
}

// visibleTiles enumerates the TileIDs covering the viewport (padded by
// radiusTiles on each side) at the view's integer zoom, clamped to
// maxZoom, ordered by ascending distance from the view center.
func (v View) visibleTiles(maxZoom uint8, radiusTiles float64) []visibleTile {
	z, scale := v.integerZoom(maxZoom)
	cx := v.CenterX * scale
	cy := v.CenterY * scale

	halfW := v.ViewportWidthTiles/2*scale + radiusTiles
	halfH := v.ViewportHeightTiles/2*scale + radiusTiles

	minX := int32(math.Floor(cx - halfW))
	maxX := int32(math.Ceil(cx + halfW))
	minY := int32(math.Floor(cy - halfH))
	maxY := int32(math.Ceil(cy + halfH))

	var out []visibleTile
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			id, ok := (tileid.ID{Z: z, X: x, Y: y}).Normalize()
			if !ok {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			out = append(out, visibleTile{id: id, distance: math.Hypot(dx, dy)})
		}
	}
	return out
}
