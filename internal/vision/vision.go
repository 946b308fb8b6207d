// Package vision holds the backend-neutral pieces shared by the annotator and
// the tracker: frames, the narrow interfaces over the vision library, drawing
// style and box geometry. Nothing in here needs OpenCV, so everything built on
// top of it can be tested with fakes.
package vision

import (
	"image"
	"image/color"
)

// Frame is one captured image. Implementations own native memory, so callers
// must Close every frame they receive.
type Frame interface {
	Size() image.Point
	// Region returns an independent copy of the pixels inside r.
	Region(r image.Rectangle) (Frame, error)
	Close() error
}

// Source produces frames, one per Read. A failed read is fatal for the caller's
// loop; sources do not retry.
type Source interface {
	Read() (Frame, error)
	Close() error
}

type FaceDetector interface {
	DetectFaces(f Frame) ([]image.Rectangle, error)
}

// Scores is the score matrix produced by a template match.
type Scores interface {
	MinMaxLoc() (minVal, maxVal float64, minLoc, maxLoc image.Point)
	Close() error
}

type TemplateMatcher interface {
	MatchTemplate(f, template Frame) (Scores, error)
}

// Painter draws overlays in place on a frame.
type Painter interface {
	Rectangle(f Frame, r image.Rectangle, c color.RGBA, thickness int) error
	PutText(f Frame, text string, org image.Point, scale float64, c color.RGBA, thickness int) error
}

// Display is a window that can show frames and report key presses.
type Display interface {
	Show(f Frame) error
	// WaitKey blocks for up to delay milliseconds (0 waits forever) and
	// returns the key code, or -1 when no key was pressed.
	WaitKey(delay int) int
	Close() error
}

type ROISelector interface {
	SelectROI(f Frame) (image.Rectangle, error)
}

// Snapshotter persists a frame and returns where it was written.
type Snapshotter interface {
	Snapshot(f Frame) (string, error)
}
