package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.Shadow.GridSize)
	assert.Equal(t, 0.00005, cfg.Shadow.Bias)
	assert.Equal(t, uint32(0x5599FF), cfg.ClearColor)
	assert.Equal(t, PresenterTerminal, cfg.Presenter)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "viewer.toml", `
width = 320
clear_color = 0x000000
model = "teapot.obj"

[shadow]
grid_size = 512

[camera]
position = [1.0, 2.0, 3.0]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, uint32(0), cfg.ClearColor)
	assert.Equal(t, 512, cfg.Shadow.GridSize)
	assert.Equal(t, [3]float64{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "teapot.obj"), cfg.Model)

	// untouched keys keep their defaults
	assert.Equal(t, 0.00005, cfg.Shadow.Bias)
	assert.Equal(t, 500.0, cfg.Camera.Far)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad toml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.toml", "width = ["))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config: parse")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := Load(writeFile(t, "type.toml", `width = "wide"`))
		require.Error(t, err)
	})
}

func TestLoadDefaultPathIsOptional(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Camera, cfg.Camera)
}

func TestResolve(t *testing.T) {
	off := false
	cfg := Default()
	cfg.Resolve(Flags{
		Width:    100,
		GridSize: 64,
		Window:   true,
		Shadows:  &off,
		Model:    "box.glb",
	})

	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 480, cfg.Height, "window mode fills in a size")
	assert.Equal(t, 64, cfg.Shadow.GridSize)
	assert.Equal(t, PresenterWindow, cfg.Presenter)
	assert.False(t, cfg.Shadow.Enabled)
	assert.Equal(t, "box.glb", cfg.Model)
	assert.Equal(t, 30, cfg.FPS, "zero flags keep file values")
}

func TestResolveTerminalKeepsFitSize(t *testing.T) {
	cfg := Default()
	cfg.Resolve(Flags{})
	assert.Zero(t, cfg.Width)
	assert.Zero(t, cfg.Height)
	assert.Positive(t, cfg.Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"negative width", func(c *Config) { c.Width = -1 }, "must not be negative"},
		{"zero fps", func(c *Config) { c.FPS = 0 }, "fps"},
		{"zero grid", func(c *Config) { c.Shadow.GridSize = 0 }, "grid size"},
		{"negative bias", func(c *Config) { c.Shadow.Bias = -1 }, "bias"},
		{"flat fov", func(c *Config) { c.Camera.FOV = 0 }, "fov"},
		{"inverted planes", func(c *Config) { c.Camera.Near, c.Camera.Far = 10, 5 }, "near < far"},
		{"clear color", func(c *Config) { c.ClearColor = 0x1000000 }, "0xRRGGBB"},
		{"presenter", func(c *Config) { c.Presenter = "plotter" }, "plotter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
