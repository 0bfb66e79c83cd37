package config

import "flag"

// Flags are the command-line overrides applied on top of the config file.
// Zero values leave the file setting alone.
type Flags struct {
	Config         string
	Debug          bool
	Skin           string
	Body           string
	Size           int
	Windowed       bool
	Fullscreen     bool
	Width          int
	Height         int
	LogFile        string
	SnapshotFormat string
}

// Register binds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Skin, "skin", "", "Skin sheet URL or path")
	fs.StringVar(&f.Body, "body", "", "Body image URL or path")
	fs.IntVar(&f.Size, "size", 0, "Avatar size in pixels")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.StringVar(&f.LogFile, "log-file", "", "Also log to this file")
	fs.StringVar(&f.SnapshotFormat, "snapshot-format", "", "Snapshot format: png or webp")
}

var cli Flags

func init() {
	cli.Register(flag.CommandLine)
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Apply writes the set flags into cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Skin != "" {
		cfg.Avatar.SkinURL = f.Skin
	}
	if f.Body != "" {
		cfg.Avatar.BodyURL = f.Body
	}
	if f.Size > 0 {
		cfg.Avatar.Size = f.Size
	}
	// -fullscreen wins when both are given.
	if f.Windowed {
		cfg.Window.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.SnapshotFormat != "" {
		cfg.Snapshot.Format = f.SnapshotFormat
	}
}
