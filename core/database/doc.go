// Package database wraps GORM connection setup for the optional scene/tile
// telemetry store.
//
// The map engine's core never depends on a database: Connect is called by
// the debug CLI, which hands the resulting *gorm.DB to telemetry.NewStore
// (see mapengine/telemetry) and treats a connection failure as non-fatal.
//
// # Connect
//
// Connect dispatches on Config.Driver ("mysql" or "sqlite") and returns a
// ready *gorm.DB with sane pool settings, or an error the caller can log
// and continue past.
package database
