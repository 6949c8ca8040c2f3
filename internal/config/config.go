package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultMaxIterations = 1024
	DefaultZoomFactor    = 2.0
	DefaultDebounce      = 300 * time.Millisecond
	DefaultMinSelection  = 5
	DefaultPreviewSize   = 256
	DefaultScreenshots   = "screenshots"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	MaxIterations    int           `yaml:"max_iterations"`
	ZoomFactor       float64       `yaml:"zoom_factor"`
	Debounce         time.Duration `yaml:"debounce"`
	MinSelection     int           `yaml:"min_selection"`
	Preview          bool          `yaml:"preview"`
	PreviewSize      int           `yaml:"preview_size"`
	PresetIterations bool          `yaml:"preset_iterations"`
	Backend          string        `yaml:"backend"`
	Workers          int           `yaml:"workers"`
	RenderTimeout    time.Duration `yaml:"render_timeout"`
	ScreenshotDir    string        `yaml:"screenshot_dir"`
	Palette          PaletteConfig `yaml:"palette"`
}

type PaletteConfig struct {
	Kind string   `yaml:"kind"` // hue, gradient or file
	From [3]uint8 `yaml:"from"`
	To   [3]uint8 `yaml:"to"`
	File string   `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MaxIterations: DefaultMaxIterations,
		ZoomFactor:    DefaultZoomFactor,
		Debounce:      DefaultDebounce,
		MinSelection:  DefaultMinSelection,
		PreviewSize:   DefaultPreviewSize,
		Backend:       "cpu",
		ScreenshotDir: DefaultScreenshots,
		Palette: PaletteConfig{
			Kind: "hue",
			From: [3]uint8{0, 255, 0},
			To:   [3]uint8{255, 0, 0},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Width, c.Height)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max_iterations %d", ErrInvalid, c.MaxIterations)
	case !(c.ZoomFactor > 1):
		return fmt.Errorf("%w: zoom_factor %g must exceed 1", ErrInvalid, c.ZoomFactor)
	case c.Debounce < 0:
		return fmt.Errorf("%w: debounce %s", ErrInvalid, c.Debounce)
	case c.MinSelection < 0:
		return fmt.Errorf("%w: min_selection %d", ErrInvalid, c.MinSelection)
	case c.PreviewSize <= 0:
		return fmt.Errorf("%w: preview_size %d", ErrInvalid, c.PreviewSize)
	case c.RenderTimeout < 0:
		return fmt.Errorf("%w: render_timeout %s", ErrInvalid, c.RenderTimeout)
	}
	switch c.Palette.Kind {
	case "hue", "gradient":
	case "file":
		if c.Palette.File == "" {
			return fmt.Errorf("%w: palette kind file needs palette.file", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: palette kind %q", ErrInvalid, c.Palette.Kind)
	}
	return nil
}

func (p PaletteConfig) FromColor() color.RGBA {
	return color.RGBA{p.From[0], p.From[1], p.From[2], 255}
}

func (p PaletteConfig) ToColor() color.RGBA {
	return color.RGBA{p.To[0], p.To[1], p.To[2], 255}
}
