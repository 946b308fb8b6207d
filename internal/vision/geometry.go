package vision

import (
	"errors"
	"fmt"
	"image"
)

// LabelOffset is how far above a box its label is drawn.
const LabelOffset = 10

var ErrEmptyROI = errors.New("region of interest has zero width or height")

// Box is a matched area given by its top-left and bottom-right corners.
type Box struct {
	TopLeft     image.Point
	BottomRight image.Point
}

// BoxAt places a box of the given template size with its top-left corner at loc.
func BoxAt(loc, size image.Point) Box {
	return Box{
		TopLeft:     loc,
		BottomRight: loc.Add(size),
	}
}

func (b Box) Rect() image.Rectangle {
	return image.Rectangle{Min: b.TopLeft, Max: b.BottomRight}
}

func (b Box) LabelOrigin() image.Point {
	return image.Pt(b.TopLeft.X, b.TopLeft.Y-LabelOffset)
}

// ClipROI checks a user selection and clips it to the frame bounds.
// The zero-size check runs on the raw selection so that a cancelled
// selection is reported as such and not as an out-of-frame one.
func ClipROI(roi, bounds image.Rectangle) (image.Rectangle, error) {
	roi = roi.Canon()
	if roi.Dx() == 0 || roi.Dy() == 0 {
		return image.Rectangle{}, ErrEmptyROI
	}
	clipped := roi.Intersect(bounds)
	if clipped.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %v lies outside frame %v", ErrEmptyROI, roi, bounds)
	}
	return clipped, nil
}
