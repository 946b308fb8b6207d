// Package visiontest provides in-memory fakes of the vision interfaces so the
// capture, match and draw loops can run without a camera or OpenCV.
package visiontest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/lkarlslund/camwatch/internal/vision"
)

var ErrExhausted = errors.New("visiontest: no more frames")

// Frame is a fake frame identified by ID.
type Frame struct {
	ID     int
	W, H   int
	Origin image.Point // set on frames cut with Region

	mu     sync.Mutex
	closed bool
	// RegionErr, when set, is returned by Region.
	RegionErr error
	regions   int
}

func NewFrame(id, w, h int) *Frame {
	return &Frame{ID: id, W: w, H: h}
}

func (f *Frame) Size() image.Point { return image.Pt(f.W, f.H) }

func (f *Frame) Region(r image.Rectangle) (vision.Frame, error) {
	f.mu.Lock()
	f.regions++
	f.mu.Unlock()
	if f.RegionErr != nil {
		return nil, f.RegionErr
	}
	if !r.In(image.Rect(0, 0, f.W, f.H)) {
		return nil, fmt.Errorf("region %v outside %dx%d", r, f.W, f.H)
	}
	return &Frame{ID: f.ID, W: r.Dx(), H: r.Dy(), Origin: r.Min}, nil
}

func (f *Frame) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *Frame) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Regions reports how many times Region was called.
func (f *Frame) Regions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regions
}

// Source hands out Frames in order, then fails with Err (ErrExhausted if nil).
type Source struct {
	Frames []*Frame
	Err    error

	reads  int
	closed bool
}

func NewSource(n, w, h int) *Source {
	s := &Source{}
	for i := 1; i <= n; i++ {
		s.Frames = append(s.Frames, NewFrame(i, w, h))
	}
	return s
}

func (s *Source) Read() (vision.Frame, error) {
	s.reads++
	if s.reads > len(s.Frames) {
		if s.Err != nil {
			return nil, s.Err
		}
		return nil, ErrExhausted
	}
	return s.Frames[s.reads-1], nil
}

func (s *Source) Close() error {
	s.closed = true
	return nil
}

func (s *Source) Reads() int   { return s.reads }
func (s *Source) Closed() bool { return s.closed }

// Display records shown frames and replays Keys, one per WaitKey call.
// Once Keys is used up WaitKey returns -1.
type Display struct {
	Keys []int

	Shown  []int
	Delays []int
	closed bool
}

func (d *Display) Show(f vision.Frame) error {
	d.Shown = append(d.Shown, f.(*Frame).ID)
	return nil
}

func (d *Display) WaitKey(delay int) int {
	d.Delays = append(d.Delays, delay)
	if len(d.Keys) == 0 {
		return -1
	}
	k := d.Keys[0]
	d.Keys = d.Keys[1:]
	return k
}

func (d *Display) Close() error {
	d.closed = true
	return nil
}

func (d *Display) Closed() bool { return d.closed }

// Selector returns a fixed rectangle.
type Selector struct {
	ROI   image.Rectangle
	Err   error
	Calls int
}

func (s *Selector) SelectROI(vision.Frame) (image.Rectangle, error) {
	s.Calls++
	return s.ROI, s.Err
}

// Scores is a precomputed score matrix summary.
type Scores struct {
	MinVal, MaxVal float64
	MinLoc, MaxLoc image.Point
	closed         bool
}

func (s *Scores) MinMaxLoc() (float64, float64, image.Point, image.Point) {
	return s.MinVal, s.MaxVal, s.MinLoc, s.MaxLoc
}

func (s *Scores) Close() error {
	s.closed = true
	return nil
}

func (s *Scores) Closed() bool { return s.closed }

// Matcher answers per frame ID. Frames without an entry in Results or Errs
// get a zero score.
type Matcher struct {
	Results map[int]*Scores
	Errs    map[int]error

	Calls     int
	Templates []vision.Frame
}

func (m *Matcher) MatchTemplate(f, template vision.Frame) (vision.Scores, error) {
	m.Calls++
	m.Templates = append(m.Templates, template)
	id := f.(*Frame).ID
	if err := m.Errs[id]; err != nil {
		return nil, err
	}
	if s, ok := m.Results[id]; ok {
		return s, nil
	}
	return &Scores{}, nil
}

// Detector returns fixed rectangles.
type Detector struct {
	Rects []image.Rectangle
	Err   error
	Calls int
}

func (d *Detector) DetectFaces(vision.Frame) ([]image.Rectangle, error) {
	d.Calls++
	return d.Rects, d.Err
}

type Rect struct {
	FrameID   int
	Rect      image.Rectangle
	Color     color.RGBA
	Thickness int
}

type Text struct {
	FrameID   int
	Text      string
	Origin    image.Point
	Scale     float64
	Color     color.RGBA
	Thickness int
}

// Painter records every draw call.
type Painter struct {
	Rects []Rect
	Texts []Text
}

func (p *Painter) Rectangle(f vision.Frame, r image.Rectangle, c color.RGBA, thickness int) error {
	p.Rects = append(p.Rects, Rect{f.(*Frame).ID, r, c, thickness})
	return nil
}

func (p *Painter) PutText(f vision.Frame, text string, org image.Point, scale float64, c color.RGBA, thickness int) error {
	p.Texts = append(p.Texts, Text{f.(*Frame).ID, text, org, scale, c, thickness})
	return nil
}

// Snapshotter records saved frame IDs.
type Snapshotter struct {
	Saved []int
	Err   error
}

func (s *Snapshotter) Snapshot(f vision.Frame) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	id := f.(*Frame).ID
	s.Saved = append(s.Saved, id)
	return fmt.Sprintf("snapshot-%d.png", id), nil
}
