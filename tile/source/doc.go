// Package source implements the Tile Source: a per-logical-layer fetcher
// that maps a TileID to a URL, issues the fetch through the Platform
// Request Interface, decodes the payload on a decode pool, and guarantees
// at most one in-flight fetch per (source id, TileID) via singleflight.
package source
