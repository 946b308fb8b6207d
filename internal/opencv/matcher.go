package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

type Matcher struct {
	mode gocv.TemplateMatchMode
}

var _ vision.TemplateMatcher = (*Matcher)(nil)

func NewMatcher(method vision.MatchMethod) (*Matcher, error) {
	var mode gocv.TemplateMatchMode
	switch method {
	case vision.CCoeffNormed:
		mode = gocv.TmCcoeffNormed
	case vision.CCorrNormed:
		mode = gocv.TmCcorrNormed
	case vision.SqDiffNormed:
		mode = gocv.TmSqdiffNormed
	default:
		return nil, fmt.Errorf("unsupported match method %q", method)
	}
	return &Matcher{mode: mode}, nil
}

func (m *Matcher) MatchTemplate(f, template vision.Frame) (vision.Scores, error) {
	img, err := matOf(f)
	if err != nil {
		return nil, err
	}
	tmpl, err := matOf(template)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	if tmpl.Cols() > img.Cols() || tmpl.Rows() > img.Rows() {
		return nil, fmt.Errorf("template %dx%d larger than frame %dx%d", tmpl.Cols(), tmpl.Rows(), img.Cols(), img.Rows())
	}
	if tmpl.Type() != img.Type() {
		return nil, fmt.Errorf("template type %v does not match frame type %v", tmpl.Type(), img.Type())
	}

	mask := gocv.NewMat()
	defer mask.Close()

	result := gocv.NewMat()
	gocv.MatchTemplate(*img, *tmpl, &result, m.mode, mask)
	return &scores{mat: result}, nil
}

type scores struct {
	mat gocv.Mat
}

func (s *scores) MinMaxLoc() (float64, float64, image.Point, image.Point) {
	minVal, maxVal, minLoc, maxLoc := gocv.MinMaxLoc(s.mat)
	return float64(minVal), float64(maxVal), minLoc, maxLoc
}

func (s *scores) Close() error {
	return s.mat.Close()
}
