package model

import "mapengine/urladdr"

// PathStep is one map-key or sequence-index hop on the way to a
// texture-candidate scalar inside a parsed document tree.
type PathStep struct {
	Key     string
	Index   int
	IsIndex bool
}

// RewritePath locates one texture-candidate scalar inside a merged
// document tree, recorded at scan time and resolved once, globally,
// after the full import merge completes (see DESIGN.md's Open Question
// decisions on YAML identity-by-reference merging).
type RewritePath []PathStep

// SceneNode is one fetched, parsed document contributing to the final
// merged scene tree. It is created (as an empty placeholder) the moment
// its URL is first enqueued, populated once its bytes arrive and parse,
// merged into the root at most once, and discarded after assembly.
type SceneNode struct {
	// SourceURL is the URL this document's relative references resolve
	// against — the fetch URL itself, or the zip:// root of the archive
	// it came from.
	SourceURL urladdr.URL
	// Document is the parsed top-level mapping, with "import" removed.
	Document map[string]any
	// ImportURLs is the ordered list of this document's resolved import
	// targets.
	ImportURLs []urladdr.URL
	// TextureRewriteSites is the set of scalar positions identified as
	// texture-URL candidates per spec §4.5, recorded before merge and
	// resolved after.
	TextureRewriteSites []RewritePath
}
