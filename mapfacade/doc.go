// Package mapfacade implements the Map Façade (spec §4.10): the single
// public entry point that sequences update/render ticks and funnels every
// client mutation (markers, tile sources, camera) through a main-thread
// job queue so the scene thread observes a consistent state at frame
// boundaries.
package mapfacade
