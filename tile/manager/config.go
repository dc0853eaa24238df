package manager

// Config tunes the tile manager's per-frame scheduling policy.
type Config struct {
	// EvictionHorizonFrames is how many consecutive frames a TileSet
	// entry may go unreferenced (neither visible nor a proxy) before the
	// manager removes it and unpins its cache entry.
	EvictionHorizonFrames int `mapstructure:"eviction_horizon_frames" default:"2"`
	// ProxyDepth is how many zoom levels up/down the manager searches
	// for a ready proxy tile before giving up.
	ProxyDepth uint8 `mapstructure:"proxy_depth" default:"1"`
	// PrefetchRadiusTiles is the ring width, in tiles, requested around
	// the viewport at the current zoom.
	PrefetchRadiusTiles float64 `mapstructure:"prefetch_radius_tiles" default:"1.0"`
	// MaxInFlightPerSource bounds concurrent loads per tile source,
	// prioritizing visible-now requests over prefetch.
	MaxInFlightPerSource int `mapstructure:"max_in_flight_per_source" default:"6"`
}
