package lifecycle

import (
	"fmt"
	"strings"

	"mapengine/core/utils"
	"mapengine/scene/model"
	"mapengine/tile/source"
	"mapengine/tile/tileid"
)

// extractStyles lifts the merged document's "styles" map into the opaque
// style-definition list Scene.Styles carries (Data Model §3: style
// definitions are opaque to this spec — consumed by the declarative
// style-to-shader code generation, an external collaborator).
func extractStyles(merged map[string]any) []any {
	styles, ok := merged["styles"].(map[string]any)
	if !ok {
		return nil
	}
	out := make([]any, 0, len(styles))
	for _, v := range styles {
		out = append(out, v)
	}
	return out
}

// parseTileSources reads the merged document's "sources" map into Tile
// Source configs (spec §6), collecting a Scene-build error for any entry
// that doesn't parse rather than failing the whole load.
func parseTileSources(merged map[string]any) ([]source.Config, []model.SceneError) {
	raw, ok := merged["sources"].(map[string]any)
	if !ok {
		return nil, nil
	}

	var cfgs []source.Config
	var errs []model.SceneError

	for id, rawEntry := range raw {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			errs = append(errs, model.SceneError{Kind: model.ErrSceneBuild, Message: fmt.Sprintf("source %q: not a mapping", id)})
			continue
		}

		typeStr, _ := entry["type"].(string)
		kind, ok := parseKind(typeStr)
		if !ok {
			errs = append(errs, model.SceneError{Kind: model.ErrSceneBuild, Message: fmt.Sprintf("source %q: unknown type %q", id, typeStr)})
			continue
		}

		urlTemplate, _ := entry["url"].(string)
		if urlTemplate == "" {
			errs = append(errs, model.SceneError{Kind: model.ErrSceneBuild, Message: fmt.Sprintf("source %q: missing url", id)})
			continue
		}

		params := map[string]string{}
		if rawParams, ok := entry["url_params"].(map[string]any); ok {
			for k, v := range rawParams {
				if s, ok := v.(string); ok {
					params[k] = s
				}
			}
		}

		// max_zoom arrives as whatever numeric type the YAML decoder chose
		// (int or float64 depending on the literal's form); utils.ToInt
		// normalizes that the same way the rest of this codebase handles
		// loosely-typed document fields.
		maxZoom := uint8(18)
		if raw, ok := entry["max_zoom"]; ok {
			maxZoom = uint8(utils.ToInt(raw))
		}

		cfgs = append(cfgs, source.Config{
			ID:          id,
			Kind:        kind,
			URLTemplate: urlTemplate,
			URLParams:   params,
			MaxZoom:     maxZoom,
		})
	}

	return cfgs, errs
}

func parseKind(s string) (source.Kind, bool) {
	switch strings.ToLower(s) {
	case "mvt":
		return source.KindMVT, true
	case "topojson":
		return source.KindTopoJSON, true
	case "geojson":
		return source.KindGeoJSON, true
	case "raster":
		return source.KindRaster, true
	default:
		return "", false
	}
}

// opaqueDecoder hands the raw fetched payload straight through as a
// Tile's Data. Interpreting the bytes (MVT protobuf, GeoJSON, raster
// image decode) is renderer/geometry-builder territory, outside this
// spec's scope (§1's "rendering primitives" Non-goal).
func opaqueDecoder() source.Decoder {
	return source.DecoderFunc(func(sourceID string, id tileid.ID, raw []byte) (any, error) {
		return raw, nil
	})
}
