// Package debugserver implements the optional debug/introspection HTTP
// server (spec §12.3): read-only JSON endpoints surfacing the current
// scene's state, the Tile Cache's Stats, and a tile source's TileSet
// snapshot. It never mutates engine state and is never required for
// correctness — an ops sidecar, not a packaged CLI or installer.
package debugserver
