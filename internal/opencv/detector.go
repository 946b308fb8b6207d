package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

type CascadeParams struct {
	ScaleFactor  float64
	MinNeighbors int
	MinSize      int // 0 = no limit
	MaxSize      int // 0 = no limit
}

// CascadeDetector finds faces with a Haar cascade classifier.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	params     CascadeParams
}

var _ vision.FaceDetector = (*CascadeDetector)(nil)

func NewCascadeDetector(path string, params CascadeParams) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("loading cascade file %s", path)
	}
	return &CascadeDetector{classifier: classifier, params: params}, nil
}

func (d *CascadeDetector) DetectFaces(f vision.Frame) ([]image.Rectangle, error) {
	mat, err := matOf(f)
	if err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if mat.Channels() == 1 {
		mat.CopyTo(&gray)
	} else {
		gocv.CvtColor(*mat, &gray, gocv.ColorBGRToGray)
	}

	return d.classifier.DetectMultiScaleWithParams(
		gray,
		d.params.ScaleFactor, d.params.MinNeighbors, 0,
		image.Pt(d.params.MinSize, d.params.MinSize),
		image.Pt(d.params.MaxSize, d.params.MaxSize),
	), nil
}

func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}
