// Package config loads, clamps and persists the screensaver configuration.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alswo471/screensaver/pkg/types"
)

// Mode selects the image source kind.
type Mode string

const (
	// ModeSingle shows one image file.
	ModeSingle Mode = "single"
	// ModeFolder cycles through a directory of images.
	ModeFolder Mode = "folder"
)

// Config holds all configuration for the screensaver. A copy taken at
// activation time acts as the immutable session snapshot.
type Config struct {
	// Image source
	Mode      Mode   `yaml:"mode" json:"mode" env:"SCREENSAVER_MODE"`
	ImagePath string `yaml:"image_path" json:"image_path" env:"SCREENSAVER_IMAGE_PATH"`

	// Timing
	TimeoutSeconds    int `yaml:"timeout_seconds" json:"timeout_seconds" env:"SCREENSAVER_TIMEOUT"`
	SlideshowInterval int `yaml:"slideshow_interval" json:"slideshow_interval" env:"SCREENSAVER_SLIDESHOW_INTERVAL"`

	// Rendering
	ScaleMode  types.ScaleMode `yaml:"scale_mode" json:"scale_mode" env:"SCREENSAVER_SCALE_MODE"`
	Background string          `yaml:"background" json:"background" env:"SCREENSAVER_BACKGROUND"`

	// Behavior flags
	Shuffle             bool `yaml:"shuffle" json:"shuffle"`
	MouseMoveExitPixels int  `yaml:"mouse_move_exit_pixels" json:"mouse_move_exit_pixels"`
	AllowBlankSingle    bool `yaml:"allow_blank_single" json:"allow_blank_single"`
	ClockOverlay        bool `yaml:"clock_overlay" json:"clock_overlay"`
	StartInTray         bool `yaml:"start_in_tray" json:"start_in_tray"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:                ModeSingle,
		ImagePath:           "",
		TimeoutSeconds:      300,
		SlideshowInterval:   10,
		ScaleMode:           types.ScaleFit,
		Background:          "#000000",
		Shuffle:             true,
		MouseMoveExitPixels: 10,
		AllowBlankSingle:    true,
		ClockOverlay:        false,
		StartInTray:         false,
	}
}

// Load loads configuration from file and environment. A missing or broken
// config file is not fatal: defaults are used and the error is returned
// alongside them for diagnostics.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	var loadErr error
	if path := Path(); path != "" {
		if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(err) {
			// Keep the defaults; the caller logs and continues.
			loadErr = fmt.Errorf("failed to load config file: %w", err)
			cfg = DefaultConfig()
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return cfg, err
	}

	cfg.Clamp()
	return cfg, loadErr
}

// Save writes the configuration to the config file, creating the
// directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("no config path available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the config file path.
func Path() string {
	if path := os.Getenv("SCREENSAVER_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "screensaver", "config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "screensaver", "config.yaml")
	}
	return ""
}

// Clamp forces out-of-range values back into their documented ranges.
// Invariants: timeout >= 0, slideshow interval >= 1, exit threshold >= 1.
func (c *Config) Clamp() {
	if c.Mode != ModeSingle && c.Mode != ModeFolder {
		c.Mode = ModeSingle
	}
	if !c.ScaleMode.Valid() {
		c.ScaleMode = types.ScaleFit
	}
	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 0
	}
	if c.SlideshowInterval < 1 {
		c.SlideshowInterval = 1
	}
	if c.MouseMoveExitPixels < 1 {
		c.MouseMoveExitPixels = 1
	}
	if _, err := ParseColor(c.Background); err != nil {
		c.Background = "#000000"
	}
}

// BackgroundColor returns the configured background as a color, falling
// back to black if the hex string is unparseable.
func (c *Config) BackgroundColor() color.NRGBA {
	col, err := ParseColor(c.Background)
	if err != nil {
		return color.NRGBA{A: 0xFF}
	}
	return col
}

// ParseColor parses a "#RRGGBB" hex color.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) error {
	if mode := os.Getenv("SCREENSAVER_MODE"); mode != "" {
		cfg.Mode = Mode(mode)
	}

	if path := os.Getenv("SCREENSAVER_IMAGE_PATH"); path != "" {
		cfg.ImagePath = path
	}

	if timeout := os.Getenv("SCREENSAVER_TIMEOUT"); timeout != "" {
		n, err := strconv.Atoi(timeout)
		if err != nil {
			return fmt.Errorf("invalid SCREENSAVER_TIMEOUT: %w", err)
		}
		cfg.TimeoutSeconds = n
	}

	if interval := os.Getenv("SCREENSAVER_SLIDESHOW_INTERVAL"); interval != "" {
		n, err := strconv.Atoi(interval)
		if err != nil {
			return fmt.Errorf("invalid SCREENSAVER_SLIDESHOW_INTERVAL: %w", err)
		}
		cfg.SlideshowInterval = n
	}

	if mode := os.Getenv("SCREENSAVER_SCALE_MODE"); mode != "" {
		cfg.ScaleMode = types.ScaleMode(mode)
	}

	if bg := os.Getenv("SCREENSAVER_BACKGROUND"); bg != "" {
		cfg.Background = bg
	}

	return nil
}
