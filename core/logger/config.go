package logger

// Config configures the structured logger.
type Config struct {
	// Level selects the zap base config: "debug" uses
	// zap.NewDevelopmentConfig, anything else uses the production
	// config.
	Level string `mapstructure:"level" default:"info"`
	// Format selects the encoder: "console" for human-readable local
	// development output, anything else for JSON.
	Format string `mapstructure:"format" default:"json"`
}
