package opencv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/lkarlslund/camwatch/internal/vision"
)

// SnapshotWriter saves frames as <uuid>.png inside Dir.
type SnapshotWriter struct {
	Dir string
}

var _ vision.Snapshotter = (*SnapshotWriter)(nil)

func NewSnapshotWriter(dir string) (*SnapshotWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotWriter{Dir: dir}, nil
}

func (s *SnapshotWriter) Snapshot(f vision.Frame) (string, error) {
	mat, err := matOf(f)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, uuid.NewString()+".png")
	if !gocv.IMWrite(path, *mat) {
		return "", fmt.Errorf("write snapshot %s", path)
	}
	return path, nil
}
