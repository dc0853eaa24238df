package importer

import "reflect"

// mergeInto deep-merges src into dst: for a key present as a map in both,
// it recurses; for any other shape, dst (the importer/parent) keeps its
// own value and src's is discarded. A discard between two non-null,
// differing-type values is reported through onConflict (spec §4.5 step 3).
func mergeInto(dst, src map[string]any, onConflict func(key string)) {
	for k, sv := range src {
		dv, exists := dst[k]
		if !exists {
			dst[k] = sv
			continue
		}

		dm, dIsMap := dv.(map[string]any)
		sm, sIsMap := sv.(map[string]any)
		if dIsMap && sIsMap {
			mergeInto(dm, sm, onConflict)
			continue
		}

		if dv != nil && sv != nil && reflect.TypeOf(dv) != reflect.TypeOf(sv) && onConflict != nil {
			onConflict(k)
		}
		// dst already holds the parent's value; nothing to overwrite.
	}
}
