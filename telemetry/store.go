package telemetry

import (
	"time"

	"mapengine/tile/tileid"

	"gorm.io/gorm"
)

// Store records scene/tile telemetry events. A nil *Store (or one built
// around a nil db) makes every Record* call a no-op, matching spec
// §12.1's "runs correctly with no database configured" requirement.
type Store struct {
	db *gorm.DB
}

// NewStore wraps db. db may be nil, producing a no-op Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// RecordSceneLoadStart inserts a SceneLoadEvent row for a scene that has
// just begun loading, returning its row id for a later
// RecordSceneLoadFinish call. Returns 0 with no error if telemetry is
// disabled.
func (s *Store) RecordSceneLoadStart(sceneID uint64, rootURL string, startedAt time.Time) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	ev := SceneLoadEvent{SceneID: sceneID, RootURL: rootURL, StartedAt: startedAt}
	if err := s.db.Create(&ev).Error; err != nil {
		return 0, err
	}
	return ev.ID, nil
}

// RecordSceneLoadFinish updates the row created by RecordSceneLoadStart
// with its ready timestamp and error count.
func (s *Store) RecordSceneLoadFinish(eventID uint64, readyAt time.Time, errorCount int) error {
	if s == nil || s.db == nil || eventID == 0 {
		return nil
	}
	return s.db.Model(&SceneLoadEvent{}).Where("id = ?", eventID).
		Updates(map[string]any{"ready_at": readyAt, "error_count": errorCount}).Error
}

// RecordTileFetch inserts one TileFetchEvent row.
func (s *Store) RecordTileFetch(sourceID string, id tileid.ID, outcome string, bytes int, latencyMs int64, fetchedAt time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	ev := TileFetchEvent{
		SourceID:  sourceID,
		Zoom:      id.Z,
		X:         id.X,
		Y:         id.Y,
		Outcome:   outcome,
		Bytes:     bytes,
		LatencyMs: latencyMs,
		FetchedAt: fetchedAt,
	}
	return s.db.Create(&ev).Error
}
