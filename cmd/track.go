package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lkarlslund/camwatch/internal/config"
	"github.com/lkarlslund/camwatch/internal/opencv"
	"github.com/lkarlslund/camwatch/internal/tracker"
	"github.com/lkarlslund/camwatch/internal/vision"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Select a region once and follow it with template matching",
	Long: `Grab a frame and let you drag a rectangle around the object to follow in
the "Select ROI" window (confirm with SPACE or ENTER, cancel with c). Ctrl-C
is only noticed once the selection window is closed. Every following frame is
searched for that template; matches above the threshold are boxed and labelled
with their score in the "Camera Feed" window.

Keys in the feed window:
  q  quit (track.exit_key)
  s  save a snapshot when --snapshot-dir is set (track.snapshot_key)

Examples:
  # Default camera, default threshold 0.8
  camwatch track

  # Looser threshold and live frame rate on stderr
  camwatch track --threshold 0.6 --stats

  # Squared difference matching on a recorded clip
  camwatch track --file clip.mp4 --method sqdiff_normed`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	addCameraFlags(trackCmd)
	trackCmd.Flags().Float64("threshold", tracker.DefaultThreshold, "Minimum match score for drawing a box")
	trackCmd.Flags().String("method", string(vision.CCoeffNormed), fmt.Sprintf("Template matching method %v", vision.MatchMethodNames()))
	trackCmd.Flags().Bool("stats", false, "Show frame rate and last score on stderr")
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Track.MinThreshold = mustGetFloat64(cmd, "threshold")
	}
	if cmd.Flags().Changed("method") {
		cfg.Track.Method = mustGetString(cmd, "method")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	opts, err := trackOptions(cfg)
	if err != nil {
		return err
	}

	matcher, err := opencv.NewMatcher(opts.Method)
	if err != nil {
		return err
	}

	snapshots, err := openSnapshots(cfg.SnapshotDir)
	if err != nil {
		return err
	}

	source, err := openSource(cfg.Camera)
	if err != nil {
		return err
	}

	be := tracker.Backend{
		Source:    source,
		Display:   opencv.NewWindow(cfg.Track.WindowName),
		Selector:  opencv.Selector{Name: cfg.Track.SelectWindowName},
		Matcher:   matcher,
		Painter:   opencv.NewPainter(),
		Snapshots: snapshots,
	}
	if mustGetBool(cmd, "stats") {
		bar := newStatsBar()
		defer bar.Finish()
		be.OnResult = func(res tracker.Result) {
			if res.Matched {
				bar.Describe(tracker.Label(res.Score))
			} else {
				bar.Describe("No match")
			}
			bar.Add(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.Default().With("run", uuid.NewString())
	log.Info("tracking", "method", opts.Method, "threshold", opts.MinThreshold)

	t := tracker.New(be, opts, log)
	if err := t.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("Tracked %d frame(s)\n", t.Frames())
	return nil
}

func trackOptions(cfg *config.Config) (tracker.Options, error) {
	method, err := vision.ParseMatchMethod(cfg.Track.Method)
	if err != nil {
		return tracker.Options{}, err
	}
	exitKey, err := config.ParseKey(cfg.Track.ExitKey)
	if err != nil {
		return tracker.Options{}, err
	}
	snapshotKey, err := config.ParseKey(cfg.Track.SnapshotKey)
	if err != nil {
		return tracker.Options{}, err
	}
	return tracker.Options{
		Method:       method,
		MinThreshold: cfg.Track.MinThreshold,
		Style:        cfg.Style(),
		ExitKey:      exitKey,
		SnapshotKey:  snapshotKey,
	}, nil
}

func newStatsBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Tracking"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(200*time.Millisecond),
	)
}
