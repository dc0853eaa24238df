package server

// Config holds configuration for the debug/introspection HTTP server.
type Config struct {
	// Port is the port the debug server listens on.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret required to access debug endpoints. Empty
	// disables auth, which is only acceptable for local development.
	ApiKey string `mapstructure:"api_key" default:""`
	// Enabled controls whether the debug server starts at all.
	Enabled bool `mapstructure:"enabled" default:"false"`
}

// RequiresAuth reports whether requests must present the configured
// API key.
func (c Config) RequiresAuth() bool {
	return c.ApiKey != ""
}
