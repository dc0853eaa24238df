// Package tileid defines the (z, x, y) tile coordinate type shared by the
// tile cache, tile source, and tile manager, with wrap-in-x and the
// ancestor/descendant relationships the tile manager's proxy selection
// needs.
package tileid
