package model

// Config holds configured parameters for loading a Scene. Only PixelScale
// is applied by the debug CLI, which copies it into SceneOptions.
type Config struct {
	// RootURL is a configured scene document URL. No loader reads it;
	// SceneOptions.RootURL is always supplied by the caller.
	RootURL string `mapstructure:"root_url" default:""`
	// PixelScale is the default render-target pixel scale (e.g. 2.0 for
	// a Retina/HiDPI target).
	PixelScale float64 `mapstructure:"pixel_scale" default:"1.0"`
	// Async is a configured async-load preference. Map.LoadScene does not
	// read it; callers pass async explicitly.
	Async bool `mapstructure:"async" default:"true"`
}
