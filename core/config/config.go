package config

import (
	"reflect"
	"strings"

	"mapengine/core/database"
	"mapengine/core/logger"
	"mapengine/core/server"
	"mapengine/core/storage"
	"mapengine/platform"
	"mapengine/scene/model"
	"mapengine/tile/cache"
	"mapengine/tile/manager"
	"mapengine/workpool"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the map engine. It is divided into
// partial configurations for better modularity, one per collaborator the
// engine wires together at startup.
type Config struct {
	// Scene holds the default root document URL, render target pixel
	// scale, and async-load default.
	Scene model.Config `mapstructure:"scene"`
	// TileCache holds the shared Tile Cache's admission policy.
	TileCache cache.Config `mapstructure:"tile_cache"`
	// TileManager holds the per-frame tile scheduling policy.
	TileManager manager.Config `mapstructure:"tile_manager"`
	// Workers sizes the decode pool and ordered scene worker queue.
	Workers workpool.Config `mapstructure:"workers"`
	// Platform holds configuration for the reference http/file/s3
	// Requester implementation.
	Platform platform.Config `mapstructure:"platform"`
	// Storage holds configuration for the s3:// scheme object storage
	// client consulted by Platform.
	Storage storage.Config `mapstructure:"storage"`
	// Telemetry holds configuration for the optional scene/tile
	// telemetry database connection.
	Telemetry database.Config `mapstructure:"telemetry"`
	// Log holds configuration for the structured logger.
	Log logger.Config `mapstructure:"log"`
	// Debug holds configuration for the optional debug/introspection
	// HTTP server.
	Debug server.Config `mapstructure:"debug"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SCENE_ROOT_URL -> scene.root_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
