// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/material"
	"github.com/Faultbox/modelview/internal/viewport"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Store kinds.
const (
	StoreFiles = "files"
	StoreHTTP  = "http"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ViewerConfig holds model display settings.
type ViewerConfig struct {
	ViewMode         string   `yaml:"view_mode"` // normal, wireframe, xray
	Color            string   `yaml:"color"`     // #rrggbb
	Palette          []string `yaml:"palette"`   // colors cycled with C
	AutoRotate       bool     `yaml:"auto_rotate"`
	RotateSpeed      float32  `yaml:"rotate_speed"` // radians per second
	FOVDegrees       float64  `yaml:"fov_degrees"`
	Margin           float64  `yaml:"margin"`
	ShowBounds       bool     `yaml:"show_bounds"`
	ScreenshotDir    string   `yaml:"screenshot_dir"`
	ScreenshotFormat string   `yaml:"screenshot_format"` // png or bmp
}

// StoreConfig selects where models come from.
type StoreConfig struct {
	Kind    string        `yaml:"kind"`  // files or http
	Paths   []string      `yaml:"paths"` // files: model files and directories
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
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
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Viewer: ViewerConfig{
			ViewMode:         "normal",
			Color:            "#cccccc",
			Palette:          []string{"#cccccc", "#1e90ff", "#ff7f50", "#3cb371", "#ffd700"},
			AutoRotate:       false,
			RotateSpeed:      0.6,
			FOVDegrees:       45,
			Margin:           camera.DefaultMargin,
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Store: StoreConfig{
			Kind:    StoreFiles,
			BaseURL: "http://127.0.0.1:8000/api",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that every setting can be converted.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, err := material.ParseViewMode(c.Viewer.ViewMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := material.ParseColor(c.Viewer.Color); err != nil {
		return fmt.Errorf("%w: viewer.color: %w", ErrInvalid, err)
	}
	for _, p := range c.Viewer.Palette {
		if _, err := material.ParseColor(p); err != nil {
			return fmt.Errorf("%w: viewer.palette: %w", ErrInvalid, err)
		}
	}
	switch strings.ToLower(c.Viewer.ScreenshotFormat) {
	case "png", "bmp":
	default:
		return fmt.Errorf("%w: screenshot format %q", ErrInvalid, c.Viewer.ScreenshotFormat)
	}
	switch c.Store.Kind {
	case StoreFiles:
	case StoreHTTP:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("%w: http store needs base_url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: store kind %q", ErrInvalid, c.Store.Kind)
	}
	return nil
}

// Settings converts the viewer section into initial viewport settings.
// Unparsable values fall back to the defaults; Validate reports them.
func (v ViewerConfig) Settings() viewport.Settings {
	s := viewport.DefaultSettings()
	if mode, err := material.ParseViewMode(v.ViewMode); err == nil {
		s.ViewMode = mode
	}
	if c, err := material.ParseColor(v.Color); err == nil {
		s.Color = c
	}
	s.AutoRotate = v.AutoRotate
	return s
}

// Colors returns the parsed palette, skipping invalid entries.
func (v ViewerConfig) Colors() []material.Color {
	colors := make([]material.Color, 0, len(v.Palette))
	for _, p := range v.Palette {
		if c, err := material.ParseColor(p); err == nil {
			colors = append(colors, c)
		}
	}
	return colors
}

// Framer converts the field of view and margin into a camera framer.
func (v ViewerConfig) Framer() camera.Framer {
	return camera.Framer{
		FOV:    v.FOVDegrees * math.Pi / 180,
		Margin: v.Margin,
	}
}
