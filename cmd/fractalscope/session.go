package main

import (
	"fmt"

	"github.com/san-kum/fractalscope/internal/compute"
	"github.com/san-kum/fractalscope/internal/config"
	"github.com/san-kum/fractalscope/internal/navigate"
	"github.com/san-kum/fractalscope/internal/palette"
	"github.com/san-kum/fractalscope/internal/storage"
)

// loadConfig reads --config if given and applies the command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if iterations > 0 {
		cfg.MaxIterations = iterations
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if dataDir != "" {
		cfg.ScreenshotDir = dataDir
	}
	return cfg, cfg.Validate()
}

func newPalette(cfg *config.Config, maxIterations int) (palette.Palette, error) {
	switch cfg.Palette.Kind {
	case "gradient":
		return palette.Gradient(maxIterations+1, cfg.Palette.FromColor(), cfg.Palette.ToColor()), nil
	case "file":
		return palette.LoadFile(cfg.Palette.File)
	default:
		return palette.HueSweep(maxIterations + 1), nil
	}
}

func newBackend(cfg *config.Config) (compute.Backend, error) {
	b, err := compute.ByName(cfg.Backend, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if !b.Available() {
		return nil, fmt.Errorf("backend %s is not available", b.Name())
	}
	return b, nil
}

// newController builds an interactive session of the given frame size.
// Interactive hosts compute the preview off the render loop.
func newController(cfg *config.Config, w, h int, asyncPreview bool) (*navigate.Controller, error) {
	b, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	pal, err := newPalette(cfg, cfg.MaxIterations)
	if err != nil {
		return nil, err
	}
	opts := navigate.OptionsFromConfig(cfg)
	opts.AsyncPreview = asyncPreview
	return navigate.New(w, h, opts, b, pal), nil
}

func newStore(cfg *config.Config) *storage.Store {
	return storage.New(cfg.ScreenshotDir)
}
