package source

// Kind is the tile payload format. Decoding itself is opaque to this
// package; Kind only selects which Decoder a caller wires up.
type Kind string

const (
	KindMVT      Kind = "mvt"
	KindTopoJSON Kind = "topojson"
	KindGeoJSON  Kind = "geojson"
	KindRaster   Kind = "raster"
)

// Config describes one tile source as declared under a scene document's
// "sources" key.
type Config struct {
	ID string
	// Kind selects the payload decoder.
	Kind Kind
	// URLTemplate contains "{z}", "{x}", "{y}" placeholders and, for any
	// entry in URLParams, a "{name}" placeholder.
	URLTemplate string
	// URLParams substitutes additional named placeholders in URLTemplate.
	URLParams map[string]string
	// MaxZoom bounds the highest zoom this source serves; the tile
	// manager clamps requests against it.
	MaxZoom uint8
}
