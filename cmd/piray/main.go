// piray - Interactive CPU path tracer for the terminal
// Renders a small sphere scene with Monte Carlo path tracing and refines the
// image over successive frames while the camera is still.
//
// Controls:
//
//	W/A/S/D     - Move forward/left/back/right
//	Q/E         - Move down/up
//	Mouse drag  - Look around
//	Scroll      - Zoom (field of view)
//	Space       - Toggle accumulation
//	R           - Reset accumulation
//	C           - Reset camera
//	Tab         - Select next object
//	M           - Cycle the selected object's material
//	+/-         - Adjust the selected material's emission power
//	J/L U/O I/K - Move the selected object along x, y and z
//	[/]         - Shrink/grow the selected object
//	P           - Save a PNG snapshot
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/taigrr/piray/internal/config"
	"github.com/taigrr/piray/internal/logger"
	"github.com/taigrr/piray/pkg/render"
	"github.com/taigrr/piray/pkg/scene"
	"go.uber.org/zap"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "piray - Interactive CPU path tracer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: piray [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Move down/up\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Look around\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom\n")
		fmt.Fprintf(os.Stderr, "  Space       - Toggle accumulation\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset accumulation\n")
		fmt.Fprintf(os.Stderr, "  C           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  Tab         - Select next object\n")
		fmt.Fprintf(os.Stderr, "  M           - Cycle material of selection\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Emission power of selection\n")
		fmt.Fprintf(os.Stderr, "  J/L U/O I/K - Move selection along x/y/z\n")
		fmt.Fprintf(os.Stderr, "  [/]         - Shrink/grow selection\n")
		fmt.Fprintf(os.Stderr, "  P           - Save PNG snapshot\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	config.ParseFlags()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	// The interactive view owns the terminal, so it only logs to a file
	headless := cfg.Headless.Frames > 0
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, headless); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	s := scene.Default()
	if err := s.Validate(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	cam := newCamera(cfg)
	r := render.NewRenderer(
		render.WithLogger(logger.Named("render")),
		render.WithSettings(render.Settings{
			Accumulate:         cfg.Render.Accumulate,
			Bounces:            cfg.Render.Bounces,
			Workers:            cfg.Render.Workers,
			ThroughputWeighted: cfg.Render.ThroughputWeighted,
		}),
	)

	if headless {
		return runHeadless(cfg, s, cam, r)
	}
	return runInteractive(cfg, s, cam, r)
}

// newCamera builds the camera described by the config.
func newCamera(cfg *config.Config) *render.Camera {
	cam := render.NewCamera(cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far)
	cam.MoveSpeed = cfg.Camera.MoveSpeed
	cam.RotationSpeed = cfg.Camera.RotationSpeed
	cam.LookSensitivity = cfg.Camera.LookSensitivity
	cam.SetPosition(cfg.CameraPosition())

	if sm := cfg.Camera.Smoothing; sm.Enabled {
		cam.SetSmoothing(cfg.Display.FPS, sm.Frequency, sm.Damping)
	} else {
		cam.DisableSmoothing()
	}
	return cam
}

// runHeadless accumulates a fixed number of frames and writes a PNG.
func runHeadless(cfg *config.Config, s *scene.Scene, cam *render.Camera, r *render.Renderer) error {
	h := cfg.Headless
	r.OnResize(h.Width, h.Height)
	cam.OnResize(h.Width, h.Height)

	logger.Info("rendering",
		zap.Int("width", h.Width),
		zap.Int("height", h.Height),
		zap.Int("frames", h.Frames),
		zap.Int("bounces", r.Settings().Bounces))

	start := time.Now()
	lastReport := start
	for i := range h.Frames {
		r.Render(s, cam)

		if time.Since(lastReport) >= time.Second {
			logger.Info("progress", zap.Int("frame", i+1), zap.Int("of", h.Frames))
			lastReport = time.Now()
		}
	}

	if err := r.FinalImage().SavePNG(h.Output); err != nil {
		return err
	}

	logger.Info("saved",
		zap.String("path", h.Output),
		zap.Int("samples", r.SampleCount()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
