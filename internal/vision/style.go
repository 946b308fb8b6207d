package vision

import "image/color"

var Green = color.RGBA{G: 255}

// Style is the overlay appearance used for boxes and labels.
type Style struct {
	BoxColor      color.RGBA
	BoxThickness  int
	FontScale     float64
	FontColor     color.RGBA
	FontThickness int
}

func DefaultStyle() Style {
	return Style{
		BoxColor:      Green,
		BoxThickness:  2,
		FontScale:     0.5,
		FontColor:     Green,
		FontThickness: 2,
	}
}
