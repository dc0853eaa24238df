// Package manager implements the Tile Manager: given the current View it
// maintains, per tile source, the minimal set of decoded tiles covering
// the view, up to one level of proxy tiles for anything not yet ready,
// and an optional prefetch ring, while honoring the eviction horizon and
// the client tile source registration batch.
//
// The view→visible-tile-set computation here is a planar approximation
// (a padded rectangle in tile-grid space around the view center) rather
// than true frustum rasterization against a tilted/pitched camera —
// frustum geometry belongs to the renderer, a declared external
// collaborator this spec does not define.
package manager
