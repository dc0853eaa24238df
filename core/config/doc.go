// Package config provides configuration management for the map engine.
//
// It utilizes Viper for loading configuration from environment variables
// and a .env file, following the same reflection-driven default binding
// as the rest of this codebase's sibling packages.
//
// # Configuration Structure
//
// The Config struct is the central repository for engine settings, divided
// into subsections:
//   - Scene: root URL, render target pixel scale, async preference
//   - TileCache: tile count / byte caps
//   - TileManager: eviction horizon, proxy depth, prefetch radius, per-source in-flight cap
//   - Workers: decode pool size, ordered worker queue depth
//   - Platform: HTTP timeout and default S3 bucket
//   - Storage: S3/minio endpoint and credentials
//   - Telemetry: database driver and DSN for the scene/tile event log
//   - Log: log level and format
//   - Debug: debug HTTP server port and API key
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Debug.Port)
package config
