package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lkarlslund/camwatch/internal/vision"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0, cfg.Camera.Device)
	assert.True(t, cfg.Camera.Mirror)
	assert.Equal(t, 1.1, cfg.Detect.ScaleFactor)
	assert.Equal(t, 5, cfg.Detect.MinNeighbors)
	assert.Equal(t, "ccoeff_normed", cfg.Track.Method)
	assert.Equal(t, 0.8, cfg.Track.MinThreshold)
	assert.Equal(t, "q", cfg.Track.ExitKey)
	assert.Equal(t, vision.DefaultStyle(), cfg.Style())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
camera:
  device: 2
  mirror: false
detect:
  scale_factor: 1.2
  min_neighbors: 3
track:
  method: sqdiff_normed
  min_threshold: 0.7
draw:
  box_color: "#ff0000"
  font_color: 0,0,255
  box_thickness: 3
snapshot_dir: /tmp/shots
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Camera.Device)
	assert.False(t, cfg.Camera.Mirror)
	assert.Equal(t, 1.2, cfg.Detect.ScaleFactor)
	assert.Equal(t, 3, cfg.Detect.MinNeighbors)
	assert.Equal(t, "haarcascade_frontalface_default.xml", cfg.Detect.Cascade, "unset keys keep defaults")
	assert.Equal(t, "sqdiff_normed", cfg.Track.Method)
	assert.Equal(t, 0.7, cfg.Track.MinThreshold)
	assert.Equal(t, color.RGBA{R: 255}, cfg.Style().BoxColor)
	assert.Equal(t, color.RGBA{B: 255}, cfg.Style().FontColor)
	assert.Equal(t, 3, cfg.Style().BoxThickness)
	assert.Equal(t, "/tmp/shots", cfg.SnapshotDir)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "track:\n  treshold: 0.5\n"))
	require.Error(t, err)
}

func TestLoadRejectsBadColor(t *testing.T) {
	_, err := Load(writeConfig(t, "draw:\n  box_color: green\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "track:\n  min_threshold: 0.7\ncamera:\n  device: 1\n")
	t.Setenv("CAMWATCH_THRESHOLD", "0.9")
	t.Setenv("CAMWATCH_DEVICE", "3")
	t.Setenv("CAMWATCH_MIRROR", "false")
	t.Setenv("CAMWATCH_CASCADE", "/opt/cascades/face.xml")
	t.Setenv("CAMWATCH_METHOD", "ccorr_normed")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Track.MinThreshold)
	assert.Equal(t, 3, cfg.Camera.Device)
	assert.False(t, cfg.Camera.Mirror)
	assert.Equal(t, "/opt/cascades/face.xml", cfg.Detect.Cascade)
	assert.Equal(t, "ccorr_normed", cfg.Track.Method)
}

func TestEnvInvalidKeepsDefault(t *testing.T) {
	t.Setenv("CAMWATCH_DEVICE", "-1")
	t.Setenv("CAMWATCH_THRESHOLD", "high")
	t.Setenv("CAMWATCH_MIRROR", "maybe")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Camera.Device)
	assert.Equal(t, 0.8, cfg.Track.MinThreshold)
	assert.True(t, cfg.Camera.Mirror)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold above one", func(c *Config) { c.Track.MinThreshold = 1.5 }, "min_threshold"},
		{"negative threshold", func(c *Config) { c.Track.MinThreshold = -0.1 }, "min_threshold"},
		{"unknown method", func(c *Config) { c.Track.Method = "ccoeff" }, "track.method"},
		{"scale factor", func(c *Config) { c.Detect.ScaleFactor = 1.0 }, "scale_factor"},
		{"neighbors", func(c *Config) { c.Detect.MinNeighbors = -1 }, "min_neighbors"},
		{"min above max", func(c *Config) { c.Detect.MinSize, c.Detect.MaxSize = 200, 100 }, "exceeds"},
		{"no cascade", func(c *Config) { c.Detect.Cascade = "" }, "cascade"},
		{"box thickness", func(c *Config) { c.Draw.BoxThickness = 0 }, "box_thickness"},
		{"font thickness", func(c *Config) { c.Draw.FontThickness = 0 }, "font_thickness"},
		{"font scale", func(c *Config) { c.Draw.FontScale = 0 }, "font_scale"},
		{"long exit key", func(c *Config) { c.Track.ExitKey = "quit" }, "exit_key"},
		{"missing exit key", func(c *Config) { c.Track.ExitKey = "" }, "exit_key"},
		{"same keys", func(c *Config) { c.Track.SnapshotKey = "q" }, "must differ"},
		{"negative device", func(c *Config) { c.Camera.Device = -2 }, "camera.device"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Track.MinThreshold = 2
	cfg.Draw.BoxThickness = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_threshold")
	assert.Contains(t, err.Error(), "box_thickness")
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("q")
	require.NoError(t, err)
	assert.Equal(t, 'q', k)

	k, err = ParseKey("esc")
	require.NoError(t, err)
	assert.Equal(t, rune(27), k)

	k, err = ParseKey("")
	require.NoError(t, err)
	assert.Zero(t, k)

	_, err = ParseKey("qq")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#00ff00", Color{G: 255}, true},
		{"#FF8000", Color{R: 255, G: 128}, true},
		{"0,255,0", Color{G: 255}, true},
		{" 10, 20, 30 ", Color{R: 10, G: 20, B: 30}, true},
		{"#0f0", Color{}, false},
		{"256,0,0", Color{}, false},
		{"1,2", Color{}, false},
		{"green", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorYAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(DrawConfig{BoxColor: Color{R: 1, G: 2, B: 3}, FontColor: Color{G: 255}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "#010203")

	var d DrawConfig
	require.NoError(t, yaml.Unmarshal(out, &d))
	assert.Equal(t, Color{R: 1, G: 2, B: 3}, d.BoxColor)
}

func TestColorFlagValue(t *testing.T) {
	var c Color
	require.NoError(t, c.Set("255,0,0"))
	assert.Equal(t, "#ff0000", c.String())
	assert.Equal(t, "color", c.Type())
	assert.Error(t, c.Set("nope"))
}
