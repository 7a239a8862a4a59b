package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Render.Accumulate {
		t.Error("expected accumulation on by default")
	}
	if cfg.Render.Bounces != 3 {
		t.Errorf("expected 3 bounces, got %d", cfg.Render.Bounces)
	}
	if cfg.Render.ThroughputWeighted {
		t.Error("expected unweighted emission by default")
	}

	if cfg.Camera.FOV != 45 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("unexpected projection defaults: %+v", cfg.Camera)
	}
	if cfg.CameraPosition() != (mgl64.Vec3{0, 0, 6}) {
		t.Errorf("expected camera at (0, 0, 6), got %v", cfg.CameraPosition())
	}
	if cfg.Camera.MoveSpeed != 5 {
		t.Errorf("expected move speed 5, got %v", cfg.Camera.MoveSpeed)
	}

	if cfg.Headless.Frames != 0 {
		t.Errorf("expected interactive mode by default, got %d headless frames", cfg.Headless.Frames)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
render:
  accumulate: false
  bounces: 5
  workers: 2
  throughput_weighted: true

camera:
  fov: 60
  position: [1, 2, 3]
  smoothing:
    enabled: false

display:
  fps: 24
  show_hud: false

headless:
  frames: 64
  width: 640
  height: 360
  output: "out.png"

logging:
  level: "debug"
  log_file: "piray.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Render.Accumulate {
		t.Error("expected accumulate to be false")
	}
	if cfg.Render.Bounces != 5 || cfg.Render.Workers != 2 || !cfg.Render.ThroughputWeighted {
		t.Errorf("unexpected render config: %+v", cfg.Render)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %v", cfg.Camera.FOV)
	}
	if cfg.CameraPosition() != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("expected position (1, 2, 3), got %v", cfg.CameraPosition())
	}
	if cfg.Camera.Smoothing.Enabled {
		t.Error("expected smoothing to be disabled")
	}
	// Keys missing from the file keep their defaults
	if cfg.Camera.Near != 0.1 || cfg.Camera.Smoothing.Frequency != 6 {
		t.Errorf("defaults lost on merge: %+v", cfg.Camera)
	}
	if cfg.Display.FPS != 24 || cfg.Display.ShowHUD {
		t.Errorf("unexpected display config: %+v", cfg.Display)
	}
	if cfg.Headless != (HeadlessConfig{Frames: 64, Width: 640, Height: 360, Output: "out.png"}) {
		t.Errorf("unexpected headless config: %+v", cfg.Headless)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "piray.log" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
render:
  bounces: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"negative bounces", func(c *Config) { c.Render.Bounces = -1 }, "render.bounces"},
		{"negative workers", func(c *Config) { c.Render.Workers = -2 }, "render.workers"},
		{"zero fov", func(c *Config) { c.Camera.FOV = 0 }, "camera.fov"},
		{"straight fov", func(c *Config) { c.Camera.FOV = 180 }, "camera.fov"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "clip planes"},
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }, "display.fps"},
		{"headless without size", func(c *Config) {
			c.Headless.Frames = 4
			c.Headless.Width = 0
		}, "headless size"},
		{"zero bounces is allowed", func(c *Config) { c.Render.Bounces = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
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
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("render:\n  bounces: 2\n"), 0o644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"640x360", 640, 360, false},
		{"80X24", 80, 24, false},
		{"640", 0, 0, true},
		{"0x10", 0, 0, true},
		{"axb", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parseSize(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
			}
		})
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
			name: "render flags",
			setup: func() {
				*flagBounces = 0
				*flagWorkers = 4
				*flagNoAccumulate = true
				*flagWeighted = true
			},
			verify: func(t *testing.T, cfg *Config) {
				want := RenderConfig{Accumulate: false, Bounces: 0, Workers: 4, ThroughputWeighted: true}
				if cfg.Render != want {
					t.Errorf("expected %+v, got %+v", want, cfg.Render)
				}
			},
			teardown: func() {
				*flagBounces = -1
				*flagWorkers = -1
				*flagNoAccumulate = false
				*flagWeighted = false
			},
		},
		{
			name: "headless flags",
			setup: func() {
				*flagFrames = 16
				*flagSize = "64x48"
				*flagOut = "shot.png"
			},
			verify: func(t *testing.T, cfg *Config) {
				want := HeadlessConfig{Frames: 16, Width: 64, Height: 48, Output: "shot.png"}
				if cfg.Headless != want {
					t.Errorf("expected %+v, got %+v", want, cfg.Headless)
				}
			},
			teardown: func() {
				*flagFrames = 0
				*flagSize = ""
				*flagOut = ""
			},
		},
		{
			name:  "fps flag",
			setup: func() { *flagFPS = 10 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Display.FPS != 10 {
					t.Errorf("expected fps 10, got %d", cfg.Display.FPS)
				}
			},
			teardown: func() { *flagFPS = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestApplyFlagsBadSize(t *testing.T) {
	*flagSize = "huge"
	defer func() { *flagSize = "" }()

	if err := applyFlags(Default()); err == nil {
		t.Error("expected error for malformed -size")
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
render:
  bounces: 6
  workers: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagBounces = 2
	defer func() {
		*flagConfig = ""
		*flagBounces = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file
	if cfg.Render.Bounces != 2 {
		t.Errorf("expected bounces 2 from flag, got %d", cfg.Render.Bounces)
	}
	// File beats default
	if cfg.Render.Workers != 3 {
		t.Errorf("expected workers 3 from file, got %d", cfg.Render.Workers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  fov: -10\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject a negative fov")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "piray.yaml")

	cfg := Default()
	cfg.Render.Bounces = 7
	cfg.Camera.Position = [3]float64{4, 5, 6}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Render.Bounces != 7 || loaded.CameraPosition() != (mgl64.Vec3{4, 5, 6}) {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
