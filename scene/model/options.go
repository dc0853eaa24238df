package model

import "mapengine/urladdr"

// SceneOptions is the request to load a scene (spec §3). Callers build one
// with NewSceneOptions and must not mutate it after passing it to a loader;
// nothing in this package enforces that beyond convention, matching how the
// rest of this module treats its other request/config structs.
type SceneOptions struct {
	// RootURL is fetched for the root document unless InlineDocument is set.
	RootURL urladdr.URL
	// InlineDocument, if non-empty, is parsed directly as the root
	// document's text instead of fetching RootURL. RootURL is still used
	// as the base for resolving the root document's relative references.
	InlineDocument string
	// SourceOverrides replaces a tile source's configured URL template by
	// source id, for testing and client-side source swapping.
	SourceOverrides map[string]string
	// PixelScale is the render target's device pixel ratio.
	PixelScale float64
}

// NewSceneOptions builds options for fetching rootURL as the scene root,
// with PixelScale defaulted to 1.
func NewSceneOptions(rootURL urladdr.URL) SceneOptions {
	return SceneOptions{RootURL: rootURL, PixelScale: 1}
}

// HasInlineDocument reports whether the root document should be parsed from
// InlineDocument rather than fetched from RootURL.
func (o SceneOptions) HasInlineDocument() bool {
	return o.InlineDocument != ""
}
