// Package opencv implements the vision interfaces with gocv.
package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

// Frame wraps a BGR or grayscale Mat.
type Frame struct {
	mat gocv.Mat
}

var _ vision.Frame = (*Frame)(nil)

// NewFrame takes ownership of mat.
func NewFrame(mat gocv.Mat) *Frame {
	return &Frame{mat: mat}
}

func (f *Frame) Size() image.Point {
	return image.Pt(f.mat.Cols(), f.mat.Rows())
}

// Region copies the pixels inside r, so the result outlives f.
func (f *Frame) Region(r image.Rectangle) (vision.Frame, error) {
	bounds := image.Rectangle{Max: f.Size()}
	if r.Empty() || !r.In(bounds) {
		return nil, fmt.Errorf("region %v not inside frame %v", r, bounds)
	}
	view := f.mat.Region(r)
	defer view.Close()
	return &Frame{mat: view.Clone()}, nil
}

func (f *Frame) Close() error {
	return f.mat.Close()
}

func matOf(f vision.Frame) (*gocv.Mat, error) {
	fr, ok := f.(*Frame)
	if !ok {
		return nil, fmt.Errorf("opencv: unsupported frame type %T", f)
	}
	if fr.mat.Empty() {
		return nil, fmt.Errorf("opencv: empty frame")
	}
	return &fr.mat, nil
}
