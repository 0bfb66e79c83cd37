// Package config handles loading and saving skinhead settings.
package config

import "fmt"

// Config holds all application settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Avatar   AvatarConfig   `yaml:"avatar"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// AvatarConfig describes which images to show and where the avatar sits.
type AvatarConfig struct {
	SkinURL string `yaml:"skin_url"`
	BodyURL string `yaml:"body_url"`
	Size    int    `yaml:"size"` // square avatar edge in pixels

	// Anchor is the avatar centre as a fraction of the window size.
	AnchorX float64 `yaml:"anchor_x"`
	AnchorY float64 `yaml:"anchor_y"`
}

// SnapshotConfig controls frame captures.
type SnapshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or webp
	Frames int    `yaml:"frames"` // frames to settle before a headless capture
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "skinhead",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Avatar: AvatarConfig{
			Size:    300,
			AnchorX: 0.5,
			AnchorY: 0.5,
		},
		Snapshot: SnapshotConfig{
			Dir:    ".",
			Format: "png",
			Frames: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings that cannot work at all.
func (c *Config) Validate() error {
	if c.Avatar.Size <= 0 {
		return fmt.Errorf("avatar.size must be positive, got %d", c.Avatar.Size)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height)
	}
	switch c.Snapshot.Format {
	case "png", "webp":
	default:
		return fmt.Errorf("snapshot.format %q: want png or webp", c.Snapshot.Format)
	}
	return nil
}
