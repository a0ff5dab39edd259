package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/material"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Viewer.ViewMode != "normal" {
		t.Errorf("expected view mode normal, got %s", cfg.Viewer.ViewMode)
	}
	if cfg.Viewer.FOVDegrees != 45 || cfg.Viewer.Margin != 2.5 {
		t.Errorf("expected fov 45 margin 2.5, got %v %v", cfg.Viewer.FOVDegrees, cfg.Viewer.Margin)
	}
	if cfg.Viewer.ScreenshotFormat != "png" {
		t.Errorf("expected png screenshots, got %s", cfg.Viewer.ScreenshotFormat)
	}

	if cfg.Store.Kind != StoreFiles {
		t.Errorf("expected files store, got %s", cfg.Store.Kind)
	}
	if cfg.Store.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Store.Timeout)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

viewer:
  view_mode: xray
  color: "#1e90ff"
  auto_rotate: true
  rotate_speed: 1.5
  fov_degrees: 60
  margin: 1.2
  show_bounds: true
  screenshot_format: bmp

store:
  kind: http
  base_url: "http://models.local/api"
  timeout: 5s

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen || cfg.Window.VSync {
		t.Error("expected fullscreen without vsync")
	}
	if cfg.Viewer.ViewMode != "xray" || cfg.Viewer.Color != "#1e90ff" {
		t.Errorf("viewer = %+v", cfg.Viewer)
	}
	if !cfg.Viewer.AutoRotate || cfg.Viewer.RotateSpeed != 1.5 || !cfg.Viewer.ShowBounds {
		t.Errorf("viewer toggles = %+v", cfg.Viewer)
	}
	if cfg.Store.Kind != StoreHTTP || cfg.Store.BaseURL != "http://models.local/api" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Store.Timeout)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Values absent from the file keep their defaults.
	if len(cfg.Viewer.Palette) == 0 {
		t.Error("expected default palette to survive a partial file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "window:\n  width: not a number\n  invalid syntax here\n"},
		{"unknown key", "viewer:\n  colour: \"#ffffff\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Errorf("empty file should load: %v", err)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("empty file changed defaults: width %d", cfg.Window.Width)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/modelview.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"unknown mode", func(c *Config) { c.Viewer.ViewMode = "toon" }},
		{"bad color", func(c *Config) { c.Viewer.Color = "red" }},
		{"bad palette", func(c *Config) { c.Viewer.Palette = []string{"#ffffff", "#12"} }},
		{"bad screenshot format", func(c *Config) { c.Viewer.ScreenshotFormat = "gif" }},
		{"unknown store", func(c *Config) { c.Store.Kind = "s3" }},
		{"http without url", func(c *Config) { c.Store.Kind = StoreHTTP; c.Store.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestViewerConversions(t *testing.T) {
	v := Default().Viewer
	v.ViewMode = "Wireframe"
	v.Color = "#ff0000"
	v.AutoRotate = true
	v.FOVDegrees = 90
	v.Margin = 3

	s := v.Settings()
	if s.ViewMode != material.Wireframe || s.Color != (material.Color{R: 1}) || !s.AutoRotate {
		t.Errorf("Settings() = %+v", s)
	}

	f := v.Framer()
	if math.Abs(f.FOV-math.Pi/2) > 1e-12 || f.Margin != 3 {
		t.Errorf("Framer() = %+v", f)
	}

	def := Default().Viewer.Framer()
	if math.Abs(def.FOV-camera.DefaultFOV) > 1e-12 || def.Margin != camera.DefaultMargin {
		t.Errorf("default Framer() = %+v, want camera defaults", def)
	}

	v.Palette = []string{"#000000", "nope", "#ffffff"}
	if got := v.Colors(); len(got) != 2 {
		t.Errorf("Colors() = %v, want 2 valid entries", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "api flag",
			setup: func() { *flagAPI = "http://example.test/api" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Store.Kind != StoreHTTP || cfg.Store.BaseURL != "http://example.test/api" {
					t.Errorf("expected http store, got %+v", cfg.Store)
				}
			},
			teardown: func() { *flagAPI = "" },
		},
		{
			name:  "mode and color flags",
			setup: func() { *flagMode = "xray"; *flagColor = "#00ff00" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.ViewMode != "xray" || cfg.Viewer.Color != "#00ff00" {
					t.Errorf("viewer = %+v", cfg.Viewer)
				}
			},
			teardown: func() { *flagMode = ""; *flagColor = "" },
		},
		{
			name:  "rotate flag",
			setup: func() { *flagRotate = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Viewer.AutoRotate {
					t.Error("expected auto-rotate")
				}
			},
			teardown: func() { *flagRotate = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("viewer:\n  view_mode: toon\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", FileName)

	cfg := Default()
	cfg.Viewer.ViewMode = "wireframe"
	cfg.Store.Paths = []string{"models/"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Viewer.ViewMode != "wireframe" || len(loaded.Store.Paths) != 1 {
		t.Errorf("reloaded config = %+v", loaded)
	}
}
