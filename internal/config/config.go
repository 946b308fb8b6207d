package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lkarlslund/camwatch/internal/annotate"
	"github.com/lkarlslund/camwatch/internal/tracker"
	"github.com/lkarlslund/camwatch/internal/vision"
)

type Config struct {
	Camera      CameraConfig `yaml:"camera"`
	Detect      DetectConfig `yaml:"detect"`
	Track       TrackConfig  `yaml:"track"`
	Draw        DrawConfig   `yaml:"draw"`
	SnapshotDir string       `yaml:"snapshot_dir"` // empty disables snapshots
}

// CameraConfig picks the frame source. File and Window take precedence over
// Device, in that order.
type CameraConfig struct {
	Device int    `yaml:"device"`
	File   string `yaml:"file"`
	Window string `yaml:"window"` // desktop window title, Windows only
	Mirror bool   `yaml:"mirror"`
}

type DetectConfig struct {
	Cascade      string  `yaml:"cascade"`
	ScaleFactor  float64 `yaml:"scale_factor"`
	MinNeighbors int     `yaml:"min_neighbors"`
	MinSize      int     `yaml:"min_size"` // pixels, 0 = no limit
	MaxSize      int     `yaml:"max_size"` // pixels, 0 = no limit
	WindowName   string  `yaml:"window_name"`
}

type TrackConfig struct {
	Method           string  `yaml:"method"`
	MinThreshold     float64 `yaml:"min_threshold"`
	ExitKey          string  `yaml:"exit_key"`
	SnapshotKey      string  `yaml:"snapshot_key"`
	WindowName       string  `yaml:"window_name"`
	SelectWindowName string  `yaml:"select_window_name"`
}

type DrawConfig struct {
	BoxColor      Color   `yaml:"box_color"`
	BoxThickness  int     `yaml:"box_thickness"`
	FontScale     float64 `yaml:"font_scale"`
	FontColor     Color   `yaml:"font_color"`
	FontThickness int     `yaml:"font_thickness"`
}

func Default() *Config {
	style := vision.DefaultStyle()
	return &Config{
		Camera: CameraConfig{
			Device: 0,
			Mirror: true,
		},
		Detect: DetectConfig{
			Cascade:      "haarcascade_frontalface_default.xml",
			ScaleFactor:  1.1,
			MinNeighbors: 5,
			WindowName:   annotate.DefaultWindowName,
		},
		Track: TrackConfig{
			Method:           string(vision.CCoeffNormed),
			MinThreshold:     tracker.DefaultThreshold,
			ExitKey:          "q",
			SnapshotKey:      "s",
			WindowName:       tracker.DefaultWindowName,
			SelectWindowName: tracker.DefaultSelectWindowName,
		},
		Draw: DrawConfig{
			BoxColor:      Color(style.BoxColor),
			BoxThickness:  style.BoxThickness,
			FontScale:     style.FontScale,
			FontColor:     Color(style.FontColor),
			FontThickness: style.FontThickness,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and CAMWATCH_* environment variables, in increasing precedence. The result
// is not validated; callers apply flag overrides first and then Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Camera.Device = envInt("CAMWATCH_DEVICE", c.Camera.Device)
	c.Camera.File = envString("CAMWATCH_FILE", c.Camera.File)
	c.Camera.Window = envString("CAMWATCH_WINDOW", c.Camera.Window)
	c.Camera.Mirror = envBool("CAMWATCH_MIRROR", c.Camera.Mirror)
	c.Detect.Cascade = envString("CAMWATCH_CASCADE", c.Detect.Cascade)
	c.Detect.ScaleFactor = envFloat("CAMWATCH_SCALE_FACTOR", c.Detect.ScaleFactor)
	c.Detect.MinNeighbors = envInt("CAMWATCH_MIN_NEIGHBORS", c.Detect.MinNeighbors)
	c.Track.Method = envString("CAMWATCH_METHOD", c.Track.Method)
	c.Track.MinThreshold = envFloat("CAMWATCH_THRESHOLD", c.Track.MinThreshold)
	c.SnapshotDir = envString("CAMWATCH_SNAPSHOT_DIR", c.SnapshotDir)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Camera.Device < 0 {
		errs = append(errs, fmt.Errorf("camera.device must be >= 0, got %d", c.Camera.Device))
	}
	if c.Detect.Cascade == "" {
		errs = append(errs, errors.New("detect.cascade is required"))
	}
	if c.Detect.ScaleFactor <= 1 {
		errs = append(errs, fmt.Errorf("detect.scale_factor must be > 1, got %v", c.Detect.ScaleFactor))
	}
	if c.Detect.MinNeighbors < 0 {
		errs = append(errs, fmt.Errorf("detect.min_neighbors must be >= 0, got %d", c.Detect.MinNeighbors))
	}
	if c.Detect.MinSize < 0 || c.Detect.MaxSize < 0 {
		errs = append(errs, errors.New("detect.min_size and detect.max_size must be >= 0"))
	}
	if c.Detect.MaxSize > 0 && c.Detect.MinSize > c.Detect.MaxSize {
		errs = append(errs, fmt.Errorf("detect.min_size %d exceeds detect.max_size %d", c.Detect.MinSize, c.Detect.MaxSize))
	}
	if _, err := vision.ParseMatchMethod(c.Track.Method); err != nil {
		errs = append(errs, fmt.Errorf("track.method: %w", err))
	}
	if c.Track.MinThreshold < 0 || c.Track.MinThreshold > 1 {
		errs = append(errs, fmt.Errorf("track.min_threshold must be within [0,1], got %v", c.Track.MinThreshold))
	}
	if _, err := ParseKey(c.Track.ExitKey); err != nil {
		errs = append(errs, fmt.Errorf("track.exit_key: %w", err))
	} else if c.Track.ExitKey == "" {
		errs = append(errs, errors.New("track.exit_key is required"))
	}
	if _, err := ParseKey(c.Track.SnapshotKey); err != nil {
		errs = append(errs, fmt.Errorf("track.snapshot_key: %w", err))
	}
	if c.Track.ExitKey != "" && c.Track.ExitKey == c.Track.SnapshotKey {
		errs = append(errs, errors.New("track.exit_key and track.snapshot_key must differ"))
	}
	if c.Draw.BoxThickness < 1 {
		errs = append(errs, fmt.Errorf("draw.box_thickness must be >= 1, got %d", c.Draw.BoxThickness))
	}
	if c.Draw.FontThickness < 1 {
		errs = append(errs, fmt.Errorf("draw.font_thickness must be >= 1, got %d", c.Draw.FontThickness))
	}
	if c.Draw.FontScale <= 0 {
		errs = append(errs, fmt.Errorf("draw.font_scale must be > 0, got %v", c.Draw.FontScale))
	}
	return errors.Join(errs...)
}

func (c *Config) Style() vision.Style {
	return vision.Style{
		BoxColor:      c.Draw.BoxColor.RGBA(),
		BoxThickness:  c.Draw.BoxThickness,
		FontScale:     c.Draw.FontScale,
		FontColor:     c.Draw.FontColor.RGBA(),
		FontThickness: c.Draw.FontThickness,
	}
}

// ParseKey accepts a single character or "esc". Empty means no key.
func ParseKey(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "esc", "ESC":
		return 27, nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("key must be a single character or \"esc\", got %q", s)
	}
	return r[0], nil
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads a non-negative integer, keeping the default when the variable is
// unset or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}
