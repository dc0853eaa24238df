package importer

import (
	"strconv"
	"strings"

	"mapengine/scene/model"
)

var materialSlots = []string{"emission", "ambient", "diffuse", "specular", "normal"}

// scanTextureCandidates walks the fixed locations spec §4.5 names inside
// every styles.<name> entry and records each texture-candidate scalar's
// path, without touching the document — rewriting happens once, globally,
// after the full import merge (see DESIGN.md's YAML identity-by-reference
// decision).
func scanTextureCandidates(doc map[string]any) []model.RewritePath {
	var paths []model.RewritePath

	styles, _ := doc["styles"].(map[string]any)
	for name, raw := range styles {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		base := model.RewritePath{{Key: "styles"}, {Key: name}}

		if isCandidate(entry["texture"]) {
			paths = append(paths, appendStep(base, "texture"))
		}

		if material, ok := entry["material"].(map[string]any); ok {
			matBase := appendStep(base, "material")
			for _, slot := range materialSlots {
				slotMap, ok := material[slot].(map[string]any)
				if !ok {
					continue
				}
				if isCandidate(slotMap["texture"]) {
					paths = append(paths, appendStep(appendStep(matBase, slot), "texture"))
				}
			}
		}

		if shaders, ok := entry["shaders"].(map[string]any); ok {
			if uniforms, ok := shaders["uniforms"].(map[string]any); ok {
				uniBase := appendStep(appendStep(base, "shaders"), "uniforms")
				for uname, uval := range uniforms {
					uPath := appendStep(uniBase, uname)
					switch v := uval.(type) {
					case []any:
						for i, elem := range v {
							if isCandidate(elem) {
								paths = append(paths, appendIndex(uPath, i))
							}
						}
					default:
						if isCandidate(uval) {
							paths = append(paths, uPath)
						}
					}
				}
			}
		}
	}

	return paths
}

func appendStep(p model.RewritePath, key string) model.RewritePath {
	out := make(model.RewritePath, len(p), len(p)+1)
	copy(out, p)
	return append(out, model.PathStep{Key: key})
}

func appendIndex(p model.RewritePath, idx int) model.RewritePath {
	out := make(model.RewritePath, len(p), len(p)+1)
	copy(out, p)
	return append(out, model.PathStep{Index: idx, IsIndex: true})
}

// isCandidate reports whether v is a texture-URL candidate scalar: a
// non-null string that doesn't start with "global." and doesn't parse as a
// bool or a number.
func isCandidate(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	if strings.HasPrefix(s, "global.") {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	if _, err := strconv.ParseBool(s); err == nil {
		return false
	}
	return true
}

// getAt reads the value at path within doc.
func getAt(doc map[string]any, path model.RewritePath) (any, bool) {
	var cur any = doc
	for _, step := range path {
		if step.IsIndex {
			arr, ok := cur.([]any)
			if !ok || step.Index < 0 || step.Index >= len(arr) {
				return nil, false
			}
			cur = arr[step.Index]
		} else {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			cur, ok = m[step.Key]
			if !ok {
				return nil, false
			}
		}
	}
	return cur, true
}

// setAt writes newVal at path within doc. Reports false if any
// intermediate step no longer resolves (the site was removed by a
// conflicting merge).
func setAt(doc map[string]any, path model.RewritePath, newVal any) bool {
	if len(path) == 0 {
		return false
	}
	var cur any = doc
	for _, step := range path[:len(path)-1] {
		if step.IsIndex {
			arr, ok := cur.([]any)
			if !ok || step.Index < 0 || step.Index >= len(arr) {
				return false
			}
			cur = arr[step.Index]
		} else {
			m, ok := cur.(map[string]any)
			if !ok {
				return false
			}
			cur, ok = m[step.Key]
			if !ok {
				return false
			}
		}
	}

	last := path[len(path)-1]
	if last.IsIndex {
		arr, ok := cur.([]any)
		if !ok || last.Index < 0 || last.Index >= len(arr) {
			return false
		}
		arr[last.Index] = newVal
		return true
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return false
	}
	m[last.Key] = newVal
	return true
}
