package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagAPI        = flag.String("api", "", "Base URL of the model API; model ids are then read from the arguments")
	flagTimeout    = flag.Duration("timeout", 0, "HTTP request timeout")
	flagMode       = flag.String("mode", "", "Initial view mode: normal, wireframe or xray")
	flagColor      = flag.String("color", "", "Object color as #rrggbb")
	flagRotate     = flag.Bool("rotate", false, "Start with auto-rotate enabled")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Args returns the positional arguments: model files and directories, or
// model ids when -api is set.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAPI != "" {
		cfg.Store.Kind = StoreHTTP
		cfg.Store.BaseURL = *flagAPI
	}
	if *flagTimeout > 0 {
		cfg.Store.Timeout = *flagTimeout
	}
	if *flagMode != "" {
		cfg.Viewer.ViewMode = *flagMode
	}
	if *flagColor != "" {
		cfg.Viewer.Color = *flagColor
	}
	if *flagRotate {
		cfg.Viewer.AutoRotate = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
