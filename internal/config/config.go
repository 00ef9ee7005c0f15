// Package config handles viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	"github.com/Faultbox/midgard-cam/internal/engine/lighting"
)

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Camera    camera.Settings `yaml:"camera"`
	Collision CollisionConfig `yaml:"collision"`
	Level     LevelConfig     `yaml:"level"`
	Audio     AudioConfig     `yaml:"audio"`
	Debug     DebugConfig     `yaml:"debug"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Fullscreen bool         `yaml:"fullscreen"`
	VSync      bool         `yaml:"vsync"`
	FOV        float32      `yaml:"fov"` // vertical, degrees
	Sun        lighting.Sun `yaml:"sun"`
}

// CollisionConfig holds camera collision settings.
type CollisionConfig struct {
	Traversal collision.TraversalMode `yaml:"traversal"`
}

// LevelConfig selects the level to load.
type LevelConfig struct {
	Path    string `yaml:"path"`    // empty loads the built-in test room
	ID      int    `yaml:"id"`      // overrides the file's level id when non-zero
	Area    int    `yaml:"area"`    // overrides the file's area when non-zero
	Preset  int    `yaml:"preset"`  // starting zoom preset
	Regions string `yaml:"regions"` // extra region table
}

// AudioConfig holds camera cue sound settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 to 1.0
}

// DebugConfig holds debug overlay settings.
type DebugConfig struct {
	ShowRegions bool `yaml:"show_regions"`
	ShowRays    bool `yaml:"show_rays"`
	Diagnostics bool `yaml:"diagnostics"` // log camera diagnostics every second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        45,
			Sun:        lighting.DefaultSun(),
		},
		Camera: camera.DefaultSettings(),
		Collision: CollisionConfig{
			Traversal: collision.FirstHit,
		},
		Level: LevelConfig{
			Preset: 0,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
		},
		Debug: DebugConfig{
			ShowRegions: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Normalize clamps values read from disk or flags into their valid ranges.
func (c *Config) Normalize() {
	c.Camera = c.Camera.Clamp()
	c.Audio.Volume = max(0, min(1, c.Audio.Volume))
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		c.Graphics.FOV = 45
	}
	if !c.Graphics.Sun.Valid() {
		c.Graphics.Sun = lighting.DefaultSun()
	}
}
