package tracker

import (
	"fmt"
	"image"
)

type State int

const (
	Selecting State = iota
	Tracking
	Done
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Tracking:
		return "tracking"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of matching the template against one frame. A result
// below the threshold is the zero value: no score, no location, not matched.
type Result struct {
	Score    float64
	Location image.Point
	Matched  bool
}

// Evaluate gates a raw best match against the confidence threshold.
func Evaluate(score float64, loc image.Point, threshold float64) Result {
	if score < threshold {
		return Result{}
	}
	return Result{Score: score, Location: loc, Matched: true}
}

func Label(score float64) string {
	return fmt.Sprintf("Match: %.2f", score)
}
