//go:build !windows

package opencv

import (
	"fmt"

	"github.com/lkarlslund/camwatch/internal/vision"
)

func OpenWindow(title string, mirror bool) (vision.Source, error) {
	return nil, fmt.Errorf("window %q: %w", title, ErrWindowCaptureUnsupported)
}
