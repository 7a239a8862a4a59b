// Package config handles piray configuration loading and management.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds all settings.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Display  DisplayConfig  `yaml:"display"`
	Headless HeadlessConfig `yaml:"headless"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RenderConfig holds path tracing settings.
type RenderConfig struct {
	Accumulate         bool `yaml:"accumulate"`
	Bounces            int  `yaml:"bounces"`
	Workers            int  `yaml:"workers"` // 0 = GOMAXPROCS
	ThroughputWeighted bool `yaml:"throughput_weighted"`
}

// CameraConfig holds the initial camera placement and controls.
type CameraConfig struct {
	FOV             float64         `yaml:"fov"` // Vertical, degrees
	Near            float64         `yaml:"near"`
	Far             float64         `yaml:"far"`
	Position        [3]float64      `yaml:"position,flow"`
	MoveSpeed       float64         `yaml:"move_speed"`
	RotationSpeed   float64         `yaml:"rotation_speed"`
	LookSensitivity float64         `yaml:"look_sensitivity"`
	Smoothing       SmoothingConfig `yaml:"smoothing"`
}

// SmoothingConfig holds the movement spring parameters.
type SmoothingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// DisplayConfig holds interactive terminal settings.
type DisplayConfig struct {
	FPS         int    `yaml:"fps"`
	ShowHUD     bool   `yaml:"show_hud"`
	SnapshotDir string `yaml:"snapshot_dir"`
}

// HeadlessConfig holds settings for rendering straight to a PNG file.
// Headless mode is used when Frames > 0.
type HeadlessConfig struct {
	Frames int    `yaml:"frames"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Output string `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Accumulate: true,
			Bounces:    3,
		},
		Camera: CameraConfig{
			FOV:             45,
			Near:            0.1,
			Far:             100,
			Position:        [3]float64{0, 0, 6},
			MoveSpeed:       5,
			RotationSpeed:   0.3,
			LookSensitivity: 0.002,
			Smoothing: SmoothingConfig{
				Enabled:   true,
				Frequency: 6,
				Damping:   1,
			},
		},
		Display: DisplayConfig{
			FPS:         30,
			ShowHUD:     true,
			SnapshotDir: ".",
		},
		Headless: HeadlessConfig{
			Width:  320,
			Height: 180,
			Output: "piray.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// CameraPosition returns the configured start position as a vector.
func (c *Config) CameraPosition() mgl64.Vec3 {
	return mgl64.Vec3(c.Camera.Position)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Render.Bounces < 0:
		return fmt.Errorf("render.bounces must be >= 0, got %d", c.Render.Bounces)
	case c.Render.Workers < 0:
		return fmt.Errorf("render.workers must be >= 0, got %d", c.Render.Workers)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("camera clip planes must satisfy 0 < near < far, got %v and %v", c.Camera.Near, c.Camera.Far)
	case c.Display.FPS <= 0:
		return fmt.Errorf("display.fps must be > 0, got %d", c.Display.FPS)
	case c.Headless.Frames < 0:
		return fmt.Errorf("headless.frames must be >= 0, got %d", c.Headless.Frames)
	case c.Headless.Frames > 0 && (c.Headless.Width <= 0 || c.Headless.Height <= 0):
		return fmt.Errorf("headless size must be positive, got %dx%d", c.Headless.Width, c.Headless.Height)
	}
	return nil
}
