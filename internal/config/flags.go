package config

import (
	"flag"

	"github.com/Faultbox/midgard-cam/internal/engine/collision"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagLevel      = flag.String("level", "", "Path to level file")
	flagLevelID    = flag.Int("level-id", 0, "Level id for the camera start table")
	flagArea       = flag.Int("area", 0, "Area index")
	flagRegions    = flag.String("regions", "", "Path to camera region table")
	flagMute       = flag.Bool("mute", false, "Disable camera cue sounds")
	flagExhaustive = flag.Bool("exhaustive", false, "Test every cell the camera ray crosses")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.Diagnostics = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagLevel != "" {
		cfg.Level.Path = *flagLevel
	}
	if *flagLevelID > 0 {
		cfg.Level.ID = *flagLevelID
	}
	if *flagArea > 0 {
		cfg.Level.Area = *flagArea
	}
	if *flagRegions != "" {
		cfg.Level.Regions = *flagRegions
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
	if *flagExhaustive {
		cfg.Collision.Traversal = collision.Exhaustive
	}
}
