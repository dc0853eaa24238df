// Package lifecycle implements the Scene Lifecycle (spec §4.9): it owns
// the current Scene and serializes scene-swap transitions through a
// single ordered worker, so that an outgoing scene's resources are only
// released after any load task queued ahead of it has finished.
package lifecycle
