package opencv

import (
	"errors"
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

var (
	ErrCapture                  = errors.New("capture returned no frame")
	ErrWindowCaptureUnsupported = errors.New("desktop window capture is only supported on Windows")
)

// Capture reads frames from a camera device or a video file.
type Capture struct {
	vc     *gocv.VideoCapture
	name   string
	file   bool
	mirror bool
}

var _ vision.Source = (*Capture)(nil)

func OpenDevice(id int, mirror bool) (*Capture, error) {
	vc, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, fmt.Errorf("opening capture device %d: %w", id, err)
	}
	return newCapture(vc, fmt.Sprintf("device %d", id), mirror)
}

func OpenFile(path string, mirror bool) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening video file %s: %w", path, err)
	}
	c, err := newCapture(vc, path, mirror)
	if err != nil {
		return nil, err
	}
	c.file = true
	return c, nil
}

func newCapture(vc *gocv.VideoCapture, name string, mirror bool) (*Capture, error) {
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("could not open %s", name)
	}
	return &Capture{vc: vc, name: name, mirror: mirror}, nil
}

// Read grabs the next frame, flipped around the vertical axis when mirroring
// so the preview behaves like a mirror.
func (c *Capture) Read() (vision.Frame, error) {
	mat := gocv.NewMat()
	if ok := c.vc.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		if c.file {
			return nil, fmt.Errorf("%s: %w: %w", c.name, ErrCapture, io.EOF)
		}
		return nil, fmt.Errorf("%s: %w", c.name, ErrCapture)
	}
	if c.mirror {
		gocv.Flip(mat, &mat, 1)
	}
	return &Frame{mat: mat}, nil
}

func (c *Capture) Close() error {
	return c.vc.Close()
}
