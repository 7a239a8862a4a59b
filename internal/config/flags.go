package config

import (
	"flag"
	"fmt"
	"strings"
)

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile      = flag.String("log", "", "Write logs to this file")
	flagFPS          = flag.Int("fps", 0, "Target FPS")
	flagBounces      = flag.Int("bounces", -1, "Bounces per path")
	flagWorkers      = flag.Int("workers", -1, "Render workers (0 = all CPUs)")
	flagNoAccumulate = flag.Bool("no-accumulate", false, "Show one sample per frame")
	flagWeighted     = flag.Bool("weighted", false, "Weight emission by path throughput")
	flagFrames       = flag.Int("frames", 0, "Render this many frames headless and exit")
	flagSize         = flag.String("size", "", "Headless image size as WIDTHxHEIGHT")
	flagOut          = flag.String("out", "", "Headless output PNG path")
	flagWriteConfig  = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the -write-config destination, if any.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Display.ShowHUD = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagFPS > 0 {
		cfg.Display.FPS = *flagFPS
	}
	if *flagBounces >= 0 {
		cfg.Render.Bounces = *flagBounces
	}
	if *flagWorkers >= 0 {
		cfg.Render.Workers = *flagWorkers
	}
	if *flagNoAccumulate {
		cfg.Render.Accumulate = false
	}
	if *flagWeighted {
		cfg.Render.ThroughputWeighted = true
	}
	if *flagFrames > 0 {
		cfg.Headless.Frames = *flagFrames
	}
	if *flagSize != "" {
		w, h, err := parseSize(*flagSize)
		if err != nil {
			return fmt.Errorf("-size: %w", err)
		}
		cfg.Headless.Width, cfg.Headless.Height = w, h
	}
	if *flagOut != "" {
		cfg.Headless.Output = *flagOut
	}
	return nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WIDTHxHEIGHT", s)
	}
	if _, err := fmt.Sscanf(ws+" "+hs, "%d %d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return width, height, nil
}
