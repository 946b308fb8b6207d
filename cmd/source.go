package cmd

import (
	"log/slog"

	"github.com/lkarlslund/camwatch/internal/config"
	"github.com/lkarlslund/camwatch/internal/opencv"
	"github.com/lkarlslund/camwatch/internal/vision"
)

// openSource picks the frame source: desktop window, then video file, then
// camera device.
func openSource(cfg config.CameraConfig) (vision.Source, error) {
	switch {
	case cfg.Window != "":
		slog.Info("capturing desktop window", "window", cfg.Window, "mirror", cfg.Mirror)
		return opencv.OpenWindow(cfg.Window, cfg.Mirror)
	case cfg.File != "":
		slog.Info("reading video file", "file", cfg.File, "mirror", cfg.Mirror)
		return opencv.OpenFile(cfg.File, cfg.Mirror)
	default:
		slog.Info("opening camera", "device", cfg.Device, "mirror", cfg.Mirror)
		return opencv.OpenDevice(cfg.Device, cfg.Mirror)
	}
}

func openSnapshots(dir string) (vision.Snapshotter, error) {
	if dir == "" {
		return nil, nil
	}
	return opencv.NewSnapshotWriter(dir)
}
