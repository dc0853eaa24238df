package platform

// Config configures the reference http/file/s3 Requester implementation.
// s3:// support itself is configured separately, through
// mapengine/core/storage.Config, and injected into NewClient as a
// pre-built storage.Client.
type Config struct {
	// HTTPTimeoutSeconds bounds a single HTTP tile/document fetch.
	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds" default:"30"`
	// DefaultBucket is used when an s3:// URL carries no net-location
	// (bucket) of its own.
	DefaultBucket string `mapstructure:"default_bucket" default:""`
}
