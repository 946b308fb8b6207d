package opencv

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

// Window is a highgui window. All calls must come from the goroutine that
// created it.
type Window struct {
	w *gocv.Window
}

var _ vision.Display = (*Window)(nil)

func NewWindow(name string) *Window {
	return &Window{w: gocv.NewWindow(name)}
}

func (w *Window) Show(f vision.Frame) error {
	mat, err := matOf(f)
	if err != nil {
		return err
	}
	w.w.IMShow(*mat)
	return nil
}

// WaitKey strips modifier bits so callers can compare against plain ASCII.
func (w *Window) WaitKey(delay int) int {
	key := w.w.WaitKey(delay)
	if key < 0 {
		return -1
	}
	return key & 0xFF
}

func (w *Window) Close() error {
	return w.w.Close()
}

// Selector lets the user drag a rectangle in a transient window, which is
// destroyed again once the selection is confirmed or cancelled.
type Selector struct {
	Name string
}

var _ vision.ROISelector = Selector{}

func (s Selector) SelectROI(f vision.Frame) (image.Rectangle, error) {
	mat, err := matOf(f)
	if err != nil {
		return image.Rectangle{}, err
	}

	w := gocv.NewWindow(s.Name)
	roi := gocv.SelectROI(s.Name, *mat)
	w.Close()
	// let highgui process the destroy event
	gocv.WaitKey(1)
	return roi, nil
}
