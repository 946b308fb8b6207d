package vision

import (
	"fmt"
	"image"
	"strings"
)

// MatchMethod selects the template matching score. Only normalized methods are
// supported so that every score can be compared against a threshold in [0,1].
type MatchMethod string

const (
	CCoeffNormed MatchMethod = "ccoeff_normed" // robust to brightness and contrast changes
	CCorrNormed  MatchMethod = "ccorr_normed"
	SqDiffNormed MatchMethod = "sqdiff_normed"
)

var matchMethods = []MatchMethod{CCoeffNormed, CCorrNormed, SqDiffNormed}

func ParseMatchMethod(s string) (MatchMethod, error) {
	m := MatchMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range matchMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown match method %q (supported: %s)", s, strings.Join(MatchMethodNames(), ", "))
}

func MatchMethodNames() []string {
	names := make([]string, len(matchMethods))
	for i, m := range matchMethods {
		names[i] = string(m)
	}
	return names
}

// Best picks the best score and its location from a score matrix. Squared
// difference is inverted so that higher always means a better match.
func (m MatchMethod) Best(s Scores) (float64, image.Point) {
	minVal, maxVal, minLoc, maxLoc := s.MinMaxLoc()
	if m == SqDiffNormed {
		return 1 - minVal, minLoc
	}
	return maxVal, maxLoc
}
