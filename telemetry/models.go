package telemetry

import "time"

// SceneLoadEvent records one scene load attempt (spec §12.1): who asked
// for what, when it became ready (or failed), and how many scene-build
// errors it accumulated. Purely diagnostic — nothing in sceneimport,
// tilecache, tilemanager, or scenelifecycle reads this back.
type SceneLoadEvent struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	SceneID    uint64 `gorm:"index"`
	RootURL    string
	StartedAt  time.Time
	ReadyAt    *time.Time
	ErrorCount int
}

// TileFetchEvent records one tile fetch outcome (spec §12.1).
type TileFetchEvent struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	SourceID  string `gorm:"index"`
	Zoom      uint8
	X         int32
	Y         int32
	Outcome   string // "ok", "fetch_error", "decode_error"
	Bytes     int
	LatencyMs int64
	FetchedAt time.Time
}
