package cache_test

import (
	"testing"

	"mapengine/tile/cache"
	"mapengine/tile/tileid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(z uint8, x, y int32) cache.Key {
	return cache.Key{SourceID: "osm", ID: tileid.ID{Z: z, X: x, Y: y}}
}

func TestCache_GetPutHitsMisses(t *testing.T) {
	c := cache.New(cache.Config{MaxTiles: 10, MaxBytes: 1024})

	_, ok := c.Get(key(0, 0, 0))
	assert.False(t, ok)

	c.Put(key(0, 0, 0), &cache.Tile{MemoryBytes: 10})
	got, ok := c.Get(key(0, 0, 0))
	require.True(t, ok)
	assert.EqualValues(t, 10, got.MemoryBytes)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestCache_EvictsLRUWhenTileCountExceeded(t *testing.T) {
	c := cache.New(cache.Config{MaxTiles: 2, MaxBytes: 1 << 20})

	c.Put(key(0, 0, 0), &cache.Tile{MemoryBytes: 1})
	c.Put(key(1, 0, 0), &cache.Tile{MemoryBytes: 1})
	// Touch the first so it's most recently used.
	c.Get(key(0, 0, 0))
	c.Put(key(1, 0, 1), &cache.Tile{MemoryBytes: 1})

	_, ok := c.Get(key(1, 0, 0))
	assert.False(t, ok, "least recently used tile should have been evicted")

	_, ok = c.Get(key(0, 0, 0))
	assert.True(t, ok)
	_, ok = c.Get(key(1, 0, 1))
	assert.True(t, ok)

	assert.EqualValues(t, 1, c.Stats().Evictions)
}

func TestCache_EvictsByByteBudget(t *testing.T) {
	c := cache.New(cache.Config{MaxTiles: 100, MaxBytes: 10})

	c.Put(key(0, 0, 0), &cache.Tile{MemoryBytes: 6})
	c.Put(key(1, 0, 0), &cache.Tile{MemoryBytes: 6})

	assert.LessOrEqual(t, c.Stats().Bytes, int64(10))
}

func TestCache_PinnedTileSurvivesEviction(t *testing.T) {
	c := cache.New(cache.Config{MaxTiles: 1, MaxBytes: 1 << 20})

	c.Put(key(0, 0, 0), &cache.Tile{MemoryBytes: 1})
	c.Pin(key(0, 0, 0))
	c.Put(key(1, 0, 0), &cache.Tile{MemoryBytes: 1})

	_, ok := c.Get(key(0, 0, 0))
	assert.True(t, ok, "pinned tile must not be evicted even over the tile-count cap")

	c.Unpin(key(0, 0, 0))
	c.Put(key(1, 0, 1), &cache.Tile{MemoryBytes: 1})

	_, ok = c.Get(key(0, 0, 0))
	assert.False(t, ok, "tile should now be evictable after Unpin")
}

func TestCache_ClearUnpinnedOnly(t *testing.T) {
	c := cache.New(cache.Config{MaxTiles: 10, MaxBytes: 1 << 20})

	c.Put(key(0, 0, 0), &cache.Tile{MemoryBytes: 1})
	c.Put(key(1, 0, 0), &cache.Tile{MemoryBytes: 1})
	c.Pin(key(0, 0, 0))

	c.Clear(false)

	_, ok := c.Get(key(0, 0, 0))
	assert.True(t, ok, "pinned tile must survive a non-forceful clear")
	_, ok = c.Get(key(1, 0, 0))
	assert.False(t, ok)
}

func TestCache_ClearDropsPinnedWhenForced(t *testing.T) {
	c := cache.New(cache.Config{MaxTiles: 10, MaxBytes: 1 << 20})

	c.Put(key(0, 0, 0), &cache.Tile{MemoryBytes: 1})
	c.Pin(key(0, 0, 0))

	c.Clear(true)

	assert.Equal(t, 0, c.Stats().Tiles)
}
