// Package telemetry implements the optional scene/tile event log (spec
// §12.1): a gorm-backed Store recording scene load attempts and tile
// fetch outcomes for operator diagnostics. Nothing in sceneimport,
// tilecache, tilemanager, or scenelifecycle reads it back — the engine
// runs correctly with no database configured.
//
// Callers obtain the *gorm.DB passed to NewStore via
// mapengine/core/database.Connect; a connection failure there is
// non-fatal and NewStore(nil) yields a Store whose Record* calls are
// no-ops.
package telemetry
