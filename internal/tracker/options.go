package tracker

import "github.com/lkarlslund/camwatch/internal/vision"

const (
	DefaultThreshold        = 0.8
	DefaultWindowName       = "Camera Feed"
	DefaultSelectWindowName = "Select ROI"
)

// Options are fixed for the lifetime of a Tracker.
type Options struct {
	Method       vision.MatchMethod
	MinThreshold float64
	Style        vision.Style

	// ExitKey ends tracking. SnapshotKey saves the current annotated frame
	// when a Snapshotter is configured; zero disables it.
	ExitKey     rune
	SnapshotKey rune
}

func DefaultOptions() Options {
	return Options{
		Method:       vision.CCoeffNormed,
		MinThreshold: DefaultThreshold,
		Style:        vision.DefaultStyle(),
		ExitKey:      'q',
		SnapshotKey:  's',
	}
}
