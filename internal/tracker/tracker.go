// Package tracker follows a user-selected region across a live feed by matching
// a fixed template against every frame.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/lkarlslund/camwatch/internal/vision"
)

var (
	ErrInvalidROI = errors.New("invalid ROI selection")
	ErrCapture    = errors.New("failed to read frame from camera")
)

// Backend bundles the collaborators a Tracker drives. Snapshots and OnResult
// are optional.
type Backend struct {
	Source    vision.Source
	Display   vision.Display
	Selector  vision.ROISelector
	Matcher   vision.TemplateMatcher
	Painter   vision.Painter
	Snapshots vision.Snapshotter

	// OnResult is called once per processed frame.
	OnResult func(Result)
}

type Tracker struct {
	be   Backend
	opts Options
	log  *slog.Logger

	state    State
	roi      image.Rectangle
	template vision.Frame
	frames   int
}

// New returns a Tracker in the Selecting state. The tracker takes ownership of
// the source and display and closes them when it is done.
func New(be Backend, opts Options, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		be:   be,
		opts: opts,
		log:  log.With("component", "tracker"),
	}
}

func (t *Tracker) State() State { return t.state }

// ROI is the selected region, empty until selection succeeded.
func (t *Tracker) ROI() image.Rectangle { return t.roi }

// Frames is the number of frames processed while tracking.
func (t *Tracker) Frames() int { return t.frames }

// Run selects a template and tracks it until the exit key, a capture failure
// or ctx cancellation. A context cancelled before Run starts skips selection. Every resource is released before Run returns.
func (t *Tracker) Run(ctx context.Context) error {
	defer t.Close()

	if ctx.Err() != nil {
		t.state = Done
		t.log.Info("cancelled before selection")
		return nil
	}
	if err := t.Select(); err != nil {
		return err
	}
	return t.Track(ctx)
}

// Select captures a sample frame, lets the user mark a region and cuts the
// template out of it.
func (t *Tracker) Select() error {
	if t.state != Selecting {
		return fmt.Errorf("select called in state %s", t.state)
	}
	t.state = Done

	frame, err := t.be.Source.Read()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}
	defer frame.Close()

	sel, err := t.be.Selector.SelectROI(frame)
	if err != nil {
		return fmt.Errorf("select roi: %w", err)
	}

	roi, err := vision.ClipROI(sel, image.Rectangle{Max: frame.Size()})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidROI, err)
	}

	template, err := frame.Region(roi)
	if err != nil {
		return fmt.Errorf("extract template: %w", err)
	}

	t.roi = roi
	t.template = template
	t.state = Tracking
	t.log.Info("template selected", "roi", roi, "size", roi.Size())
	return nil
}

// Track runs the per-frame loop. A failed read ends the loop and is returned;
// a failed match is logged and the frame is shown without a box.
func (t *Tracker) Track(ctx context.Context) error {
	if t.state != Tracking {
		return fmt.Errorf("track called in state %s", t.state)
	}
	defer func() { t.state = Done }()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("tracking cancelled", "frames", t.frames)
			return nil
		default:
		}

		frame, err := t.be.Source.Read()
		if err != nil {
			t.log.Error("camera error", "err", err, "frames", t.frames)
			return fmt.Errorf("%w: %w", ErrCapture, err)
		}

		stop := t.step(frame)
		frame.Close()
		if stop {
			t.log.Info("tracking stopped", "frames", t.frames)
			return nil
		}
	}
}

// step processes, shows and handles keys for one frame. It reports whether
// the exit key was pressed.
func (t *Tracker) step(frame vision.Frame) bool {
	t.frames++

	res := t.match(frame)
	if res.Matched {
		t.draw(frame, res)
	}
	if t.be.OnResult != nil {
		t.be.OnResult(res)
	}

	if err := t.be.Display.Show(frame); err != nil {
		t.log.Warn("display failed", "err", err)
	}

	key := t.be.Display.WaitKey(1)
	switch {
	case key < 0:
	case t.opts.ExitKey != 0 && key == int(t.opts.ExitKey):
		return true
	case t.opts.SnapshotKey != 0 && key == int(t.opts.SnapshotKey):
		t.snapshot(frame)
	}
	return false
}

func (t *Tracker) match(frame vision.Frame) Result {
	scores, err := t.be.Matcher.MatchTemplate(frame, t.template)
	if err != nil {
		t.log.Error("processing error", "err", err, "frame", t.frames)
		return Result{}
	}
	defer scores.Close()

	score, loc := t.opts.Method.Best(scores)
	res := Evaluate(score, loc, t.opts.MinThreshold)
	t.log.Debug("match", "frame", t.frames, "score", score, "loc", loc, "matched", res.Matched)
	return res
}

func (t *Tracker) draw(frame vision.Frame, res Result) {
	style := t.opts.Style
	box := vision.BoxAt(res.Location, t.roi.Size())

	if err := t.be.Painter.Rectangle(frame, box.Rect(), style.BoxColor, style.BoxThickness); err != nil {
		t.log.Warn("draw box failed", "err", err)
		return
	}
	if err := t.be.Painter.PutText(frame, Label(res.Score), box.LabelOrigin(), style.FontScale, style.FontColor, style.FontThickness); err != nil {
		t.log.Warn("draw label failed", "err", err)
	}
}

func (t *Tracker) snapshot(frame vision.Frame) {
	if t.be.Snapshots == nil {
		t.log.Warn("snapshot requested but no snapshot directory is configured")
		return
	}
	path, err := t.be.Snapshots.Snapshot(frame)
	if err != nil {
		t.log.Error("snapshot failed", "err", err)
		return
	}
	t.log.Info("snapshot saved", "path", path)
}

// Close releases the template, the source and the display. It is safe to
// call more than once.
func (t *Tracker) Close() error {
	t.state = Done

	var errs []error
	if t.template != nil {
		errs = append(errs, t.template.Close())
		t.template = nil
	}
	if t.be.Source != nil {
		errs = append(errs, t.be.Source.Close())
		t.be.Source = nil
	}
	if t.be.Display != nil {
		errs = append(errs, t.be.Display.Close())
		t.be.Display = nil
	}
	return errors.Join(errs...)
}
