// Package cache implements the Tile Cache: a bounded LRU keyed by
// (source id, TileID) holding decoded tiles with shared ownership.
//
// Capacity is enforced by two independent caps — a tile count and a byte
// footprint — both checked on every insert. A tile held by the active
// view (the tile manager's visible or proxy set) is pinned via Pin/Unpin
// and is never evicted regardless of LRU position; this is the Go
// rendering of spec §4.6's "pinned if any outside holder retains shared
// ownership" without a C++-style shared_ptr refcount.
package cache
