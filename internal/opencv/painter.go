package opencv

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

type Painter struct {
	Font gocv.HersheyFont
}

var _ vision.Painter = Painter{}

func NewPainter() Painter {
	return Painter{Font: gocv.FontHersheySimplex}
}

func (p Painter) Rectangle(f vision.Frame, r image.Rectangle, c color.RGBA, thickness int) error {
	mat, err := matOf(f)
	if err != nil {
		return err
	}
	gocv.Rectangle(mat, r, c, thickness)
	return nil
}

func (p Painter) PutText(f vision.Frame, text string, org image.Point, scale float64, c color.RGBA, thickness int) error {
	mat, err := matOf(f)
	if err != nil {
		return err
	}
	gocv.PutText(mat, text, org, p.Font, scale, c, thickness)
	return nil
}
