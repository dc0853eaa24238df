package database

// Config holds configuration for the optional telemetry database
// connection.
type Config struct {
	// Driver selects the GORM dialector: "mysql" or "sqlite".
	Driver string `mapstructure:"driver" default:"sqlite"`
	// DSN is the sqlite file path (or ":memory:"), only consulted when
	// Driver is "sqlite".
	DSN string `mapstructure:"dsn" default:"mapengine.db"`
	// Host, Port, User, Password, Name are only consulted for the mysql
	// driver.
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"3306"`
	User     string `mapstructure:"user" default:"root"`
	Password string `mapstructure:"password" default:""`
	Name     string `mapstructure:"name" default:"mapengine"`
	// TimeoutSeconds bounds connection setup and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
