// Package config holds the viewer settings, read from a TOML file and
// overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "~/.config/irregularz/config.toml"

// Presenters.
const (
	PresenterTerminal = "terminal"
	PresenterWindow   = "window"
)

// Config holds all render and viewer settings.
type Config struct {
	// Framebuffer size in pixels. Zero in terminal mode means "fit the
	// terminal".
	Width  int `toml:"width"`
	Height int `toml:"height"`

	FPS     int `toml:"fps"`
	Workers int `toml:"workers"`

	Shadow ShadowConfig `toml:"shadow"`
	Camera CameraConfig `toml:"camera"`

	// ClearColor is 0xRRGGBB.
	ClearColor uint32 `toml:"clear_color"`

	// Light is the light position before orbiting.
	Light [3]float64 `toml:"light"`

	// Orbit is the light's angular speed around Y, in radians per second.
	Orbit float64 `toml:"orbit"`

	Presenter string `toml:"presenter"`
	Model     string `toml:"model"`
}

// ShadowConfig configures the shadow mapper.
type ShadowConfig struct {
	Enabled  bool    `toml:"enabled"`
	GridSize int     `toml:"grid_size"`
	Bias     float64 `toml:"bias"`
}

// CameraConfig configures the viewer camera and its controls.
type CameraConfig struct {
	Position [3]float64 `toml:"position"`
	Target   [3]float64 `toml:"target"`
	FOV      float64    `toml:"fov"`
	Near     float64    `toml:"near"`
	Far      float64    `toml:"far"`
	Speed    float64    `toml:"speed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FPS:     30,
		Workers: runtime.GOMAXPROCS(0),
		Shadow: ShadowConfig{
			Enabled:  true,
			GridSize: 256,
			Bias:     0.00005,
		},
		Camera: CameraConfig{
			Position: [3]float64{-5, 8, -22},
			Target:   [3]float64{0, 0, 0},
			FOV:      0.7853981633974483,
			Near:     1,
			Far:      500,
			Speed:    50,
		},
		ClearColor: 0x5599FF,
		Light:      [3]float64{10, 50, -70},
		Orbit:      0.06,
		Presenter:  PresenterTerminal,
	}
}

// Load reads a TOML config file on top of Default. An empty path reads
// DefaultPath and tolerates its absence. A leading ~ is expanded.
func Load(path string) (Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config: expand %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", expanded, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", expanded, err)
	}
	if cfg.Model != "" && !filepath.IsAbs(cfg.Model) {
		if m, err := homedir.Expand(cfg.Model); err == nil && filepath.IsAbs(m) {
			cfg.Model = m
		} else {
			cfg.Model = filepath.Join(filepath.Dir(expanded), cfg.Model)
		}
	}
	return cfg, nil
}

// Flags holds command-line values that override the file. Zero values and
// nil pointers leave the file setting alone.
type Flags struct {
	Width    int
	Height   int
	FPS      int
	Workers  int
	GridSize int
	Bias     float64
	Window   bool
	Shadows  *bool
	Model    string
}

// Resolve applies flags over c.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.GridSize > 0 {
		c.Shadow.GridSize = flags.GridSize
	}
	if flags.Bias > 0 {
		c.Shadow.Bias = flags.Bias
	}
	if flags.Window {
		c.Presenter = PresenterWindow
	}
	if flags.Shadows != nil {
		c.Shadow.Enabled = *flags.Shadows
	}
	if flags.Model != "" {
		c.Model = flags.Model
	}

	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Presenter == PresenterWindow {
		if c.Width <= 0 {
			c.Width = 640
		}
		if c.Height <= 0 {
			c.Height = 480
		}
	}
}

// Validate reports settings the renderer cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must not be negative", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.FPS))
	}
	if c.Shadow.GridSize <= 0 {
		errs = append(errs, fmt.Errorf("shadow grid size %d must be positive", c.Shadow.GridSize))
	}
	if c.Shadow.Bias < 0 {
		errs = append(errs, fmt.Errorf("shadow bias %g must not be negative", c.Shadow.Bias))
	}
	if !(c.Camera.FOV > 0 && c.Camera.FOV < 3.14159) {
		errs = append(errs, fmt.Errorf("camera fov %g must be in (0, pi)", c.Camera.FOV))
	}
	if !(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near) {
		errs = append(errs, fmt.Errorf("camera planes %g..%g must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if c.ClearColor > 0xFFFFFF {
		errs = append(errs, fmt.Errorf("clear color %#x is not 0xRRGGBB", c.ClearColor))
	}
	switch c.Presenter {
	case PresenterTerminal, PresenterWindow:
	default:
		errs = append(errs, fmt.Errorf("unknown presenter %q", c.Presenter))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
