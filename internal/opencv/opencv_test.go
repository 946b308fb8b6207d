package opencv

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
	"github.com/lkarlslund/camwatch/internal/vision/visiontest"
)

// scene draws a textured patch on a black 160x120 canvas.
func scene(t *testing.T) *Frame {
	t.Helper()
	mat := gocv.Zeros(120, 160, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&mat, image.Rect(40, 30, 70, 60), color.RGBA{255, 255, 255, 0}, -1)
	gocv.Circle(&mat, image.Pt(50, 40), 6, color.RGBA{0, 0, 255, 0}, -1)
	gocv.Line(&mat, image.Pt(42, 58), image.Pt(68, 32), color.RGBA{0, 255, 0, 0}, 2)
	f := NewFrame(mat)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFrameRegionCopies(t *testing.T) {
	f := scene(t)
	assert.Equal(t, image.Pt(160, 120), f.Size())

	sub, err := f.Region(image.Rect(35, 25, 75, 65))
	require.NoError(t, err)
	defer sub.Close()
	assert.Equal(t, image.Pt(40, 40), sub.Size())

	// painting the source frame must not change the copy
	gocv.Rectangle(&f.mat, image.Rect(0, 0, 160, 120), color.RGBA{}, -1)
	v := sub.(*Frame).mat.GetVecbAt(10, 20)
	assert.Equal(t, uint8(255), v[0])
}

func TestFrameRegionOutOfBounds(t *testing.T) {
	f := scene(t)
	for _, r := range []image.Rectangle{
		image.Rect(150, 100, 170, 130),
		image.Rect(10, 10, 10, 20),
	} {
		_, err := f.Region(r)
		assert.Error(t, err, "%v", r)
	}
}

func TestMatcherFindsTemplate(t *testing.T) {
	f := scene(t)
	tmpl, err := f.Region(image.Rect(35, 25, 75, 65))
	require.NoError(t, err)
	defer tmpl.Close()

	for _, method := range []vision.MatchMethod{vision.CCoeffNormed, vision.SqDiffNormed} {
		t.Run(string(method), func(t *testing.T) {
			m, err := NewMatcher(method)
			require.NoError(t, err)

			scores, err := m.MatchTemplate(f, tmpl)
			require.NoError(t, err)
			defer scores.Close()

			score, loc := method.Best(scores)
			assert.Equal(t, image.Pt(35, 25), loc)
			assert.InDelta(t, 1.0, score, 0.01)
		})
	}
}

func TestMatcherRejectsOversizedTemplate(t *testing.T) {
	small := NewFrame(gocv.Zeros(10, 10, gocv.MatTypeCV8UC3))
	defer small.Close()
	f := scene(t)

	m, err := NewMatcher(vision.CCoeffNormed)
	require.NoError(t, err)
	_, err = m.MatchTemplate(small, f)
	assert.ErrorContains(t, err, "larger than frame")
}

func TestMatcherUnknownMethod(t *testing.T) {
	_, err := NewMatcher("fancy")
	assert.Error(t, err)
}

func TestPainterRejectsForeignFrame(t *testing.T) {
	p := NewPainter()
	fake := &visiontest.Frame{W: 10, H: 10}
	assert.Error(t, p.Rectangle(fake, image.Rect(0, 0, 5, 5), vision.Green, 2))
	assert.Error(t, p.PutText(fake, "x", image.Pt(0, 5), 0.5, vision.Green, 1))
}

func TestPainterDraws(t *testing.T) {
	f := NewFrame(gocv.Zeros(50, 50, gocv.MatTypeCV8UC3))
	defer f.Close()

	require.NoError(t, NewPainter().Rectangle(f, image.Rect(10, 10, 40, 40), vision.Green, 2))
	v := f.mat.GetVecbAt(10, 10)
	assert.Equal(t, []uint8{0, 255, 0}, []uint8(v))
}

func TestSnapshotWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	w, err := NewSnapshotWriter(dir)
	require.NoError(t, err)

	path, err := w.Snapshot(scene(t))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".png", filepath.Ext(path))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.avi"), false)
	assert.Error(t, err)
}

func TestCascadeDetectorMissingFile(t *testing.T) {
	_, err := NewCascadeDetector(filepath.Join(t.TempDir(), "missing.xml"), CascadeParams{ScaleFactor: 1.1, MinNeighbors: 5})
	assert.Error(t, err)
}

// clip writes a single-frame image sequence with a white bar near the left
// edge and returns its pattern.
func clip(t *testing.T) string {
	t.Helper()
	mat := gocv.Zeros(30, 40, gocv.MatTypeCV8UC3)
	defer mat.Close()
	gocv.Rectangle(&mat, image.Rect(2, 10, 8, 20), color.RGBA{255, 255, 255, 0}, -1)

	dir := t.TempDir()
	require.True(t, gocv.IMWrite(filepath.Join(dir, "f00.png"), mat))
	return filepath.Join(dir, "f%02d.png")
}

func TestCaptureMirror(t *testing.T) {
	tests := []struct {
		name        string
		mirror      bool
		white, dark int // columns
	}{
		{"mirrored", true, 40 - 1 - 4, 4},
		{"as captured", false, 4, 40 - 1 - 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := OpenFile(clip(t), tt.mirror)
			require.NoError(t, err)
			defer c.Close()

			f, err := c.Read()
			require.NoError(t, err)
			defer f.Close()
			require.Equal(t, image.Pt(40, 30), f.Size())

			mat := f.(*Frame).mat
			assert.Equal(t, uint8(255), mat.GetVecbAt(15, tt.white)[0])
			assert.Equal(t, uint8(0), mat.GetVecbAt(15, tt.dark)[0])
		})
	}
}

func TestCaptureEndOfFile(t *testing.T) {
	c, err := OpenFile(clip(t), true)
	require.NoError(t, err)
	defer c.Close()

	f, err := c.Read()
	require.NoError(t, err)
	f.Close()

	_, err = c.Read()
	assert.ErrorIs(t, err, ErrCapture)
	assert.ErrorIs(t, err, io.EOF)
}
