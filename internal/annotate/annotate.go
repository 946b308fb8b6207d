// Package annotate draws boxes around the faces found in a single captured frame.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/lkarlslund/camwatch/internal/vision"
)

const DefaultWindowName = "Face Detection"

var ErrNoFrame = errors.New("failed to grab initial frame from camera")

// Backend holds the annotator's collaborators. Display and Snapshots may be
// nil: without a display the annotated frame is only written as a snapshot.
type Backend struct {
	Source    vision.Source
	Detector  vision.FaceDetector
	Painter   vision.Painter
	Display   vision.Display
	Snapshots vision.Snapshotter
}

type Annotator struct {
	be    Backend
	style vision.Style
	log   *slog.Logger
}

// New takes ownership of the source and display.
func New(be Backend, style vision.Style, log *slog.Logger) *Annotator {
	if log == nil {
		log = slog.Default()
	}
	return &Annotator{be: be, style: style, log: log.With("component", "annotate")}
}

// Run captures one frame, boxes every detected face and shows the result
// until a key is pressed. It returns the detected faces.
func (a *Annotator) Run(ctx context.Context) ([]image.Rectangle, error) {
	defer a.close()

	frame, err := a.be.Source.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFrame, err)
	}
	defer frame.Close()

	faces, err := a.be.Detector.DetectFaces(frame)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	a.log.Info("faces detected", "faces", len(faces))

	for i, r := range faces {
		a.log.Debug("face", "index", i, "rect", r)
		if err := a.be.Painter.Rectangle(frame, r, a.style.BoxColor, a.style.BoxThickness); err != nil {
			return faces, fmt.Errorf("draw face %d: %w", i, err)
		}
	}

	if a.be.Snapshots != nil {
		path, err := a.be.Snapshots.Snapshot(frame)
		if err != nil {
			return faces, fmt.Errorf("snapshot: %w", err)
		}
		a.log.Info("snapshot saved", "path", path)
	}

	if a.be.Display == nil {
		return faces, nil
	}
	if err := a.be.Display.Show(frame); err != nil {
		return faces, fmt.Errorf("show frame: %w", err)
	}
	a.waitKey(ctx)
	return faces, nil
}

// waitKey blocks until any key is pressed. Polling in short steps instead of
// WaitKey(0) lets ctx cancellation end the wait too.
func (a *Annotator) waitKey(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if a.be.Display.WaitKey(100) >= 0 {
			return
		}
	}
}

func (a *Annotator) close() {
	if err := a.be.Source.Close(); err != nil {
		a.log.Warn("close source", "err", err)
	}
	if a.be.Display != nil {
		if err := a.be.Display.Close(); err != nil {
			a.log.Warn("close display", "err", err)
		}
	}
}
