package cache

// Config bounds a Cache's admission policy.
type Config struct {
	// MaxTiles is the maximum number of tiles the cache may hold,
	// excluding pinned tiles.
	MaxTiles int `mapstructure:"max_tiles" default:"256"`
	// MaxBytes is the maximum total Tile.MemoryBytes the cache may hold,
	// excluding pinned tiles.
	MaxBytes int64 `mapstructure:"max_bytes" default:"134217728"`
}
