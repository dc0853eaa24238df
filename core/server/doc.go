// Package server holds the optional debug/introspection HTTP server
// configuration.
//
// The map engine itself never requires an HTTP surface to function; this
// package only configures the sidecar server that exposes cache stats,
// tile manager state, and scene status for operators, mirroring the way
// production services in this codebase carry a debug-only ops surface
// alongside their primary responsibility.
package server
