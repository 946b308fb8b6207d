//go:build windows

package opencv

import (
	"fmt"
	"image"
	"log/slog"
	"syscall"

	"github.com/disintegration/gift"
	"github.com/lxn/win"
	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

// WindowSource captures the client area of a desktop window by title.
type WindowSource struct {
	hwnd   win.HWND
	title  string
	orient *gift.GIFT
	warned bool
}

// OpenWindow finds a top-level window by its exact title.
func OpenWindow(title string, mirror bool) (vision.Source, error) {
	handle, err := findWindow(title)
	if err != nil {
		return nil, err
	}

	filters := []gift.Filter{gift.FlipVertical()}
	if mirror {
		filters = append(filters, gift.FlipHorizontal())
	}
	return &WindowSource{
		hwnd:   win.HWND(handle),
		title:  title,
		orient: gift.New(filters...),
	}, nil
}

// Foreground reports whether the captured window has focus. Covered windows
// capture whatever is drawn on top of them.
func (s *WindowSource) Foreground() bool {
	return win.GetForegroundWindow() == s.hwnd
}

func (s *WindowSource) Read() (vision.Frame, error) {
	if !win.IsWindow(s.hwnd) {
		return nil, fmt.Errorf("window %q: %w", s.title, ErrCapture)
	}
	if !s.Foreground() && !s.warned {
		slog.Warn("captured window is not in the foreground", "window", s.title)
		s.warned = true
	}

	area, err := clientRect(syscall.Handle(s.hwnd))
	if err != nil {
		return nil, fmt.Errorf("window %q: %w: %w", s.title, ErrCapture, err)
	}
	raw, err := grabWindow(syscall.Handle(s.hwnd), area)
	if err != nil {
		return nil, fmt.Errorf("window %q: %w: %w", s.title, ErrCapture, err)
	}

	img := image.NewRGBA(s.orient.Bounds(raw.Bounds()))
	s.orient.Draw(img, raw)

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert window capture: %w", err)
	}
	return &Frame{mat: mat}, nil
}

func (s *WindowSource) Close() error { return nil }
