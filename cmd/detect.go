package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lkarlslund/camwatch/internal/annotate"
	"github.com/lkarlslund/camwatch/internal/opencv"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Box every face in a single captured frame",
	Long: `Grab one frame, run a Haar cascade face detector on it and draw a box
around every face. The result is shown in the "Face Detection" window until a
key is pressed.

Examples:
  # Default camera, default cascade
  camwatch detect

  # Headless: write the annotated frame to ./shots and exit
  camwatch detect --no-window --snapshot-dir shots

  # Stricter detector on a recorded clip
  camwatch detect --file clip.mp4 --min-neighbors 8`,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	addCameraFlags(detectCmd)
	detectCmd.Flags().String("cascade", "", "Haar cascade XML file (default from config)")
	detectCmd.Flags().Float64("scale-factor", 0, "Image pyramid scale step (default from config)")
	detectCmd.Flags().Int("min-neighbors", 0, "Neighbors a candidate needs to be kept (default from config)")
	detectCmd.Flags().Bool("no-window", false, "Do not open a window, only write snapshots")
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cascade") {
		cfg.Detect.Cascade = mustGetString(cmd, "cascade")
	}
	if cmd.Flags().Changed("scale-factor") {
		cfg.Detect.ScaleFactor = mustGetFloat64(cmd, "scale-factor")
	}
	if cmd.Flags().Changed("min-neighbors") {
		cfg.Detect.MinNeighbors = mustGetInt(cmd, "min-neighbors")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	headless := mustGetBool(cmd, "no-window")
	if headless && cfg.SnapshotDir == "" {
		return fmt.Errorf("--no-window needs --snapshot-dir, the result would be lost otherwise")
	}

	detector, err := opencv.NewCascadeDetector(cfg.Detect.Cascade, opencv.CascadeParams{
		ScaleFactor:  cfg.Detect.ScaleFactor,
		MinNeighbors: cfg.Detect.MinNeighbors,
		MinSize:      cfg.Detect.MinSize,
		MaxSize:      cfg.Detect.MaxSize,
	})
	if err != nil {
		return err
	}
	defer detector.Close()

	snapshots, err := openSnapshots(cfg.SnapshotDir)
	if err != nil {
		return err
	}

	source, err := openSource(cfg.Camera)
	if err != nil {
		return err
	}

	be := annotate.Backend{
		Source:    source,
		Detector:  detector,
		Painter:   opencv.NewPainter(),
		Snapshots: snapshots,
	}
	if !headless {
		be.Display = opencv.NewWindow(cfg.Detect.WindowName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	faces, err := annotate.New(be, cfg.Style(), slog.Default()).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Detected %d face(s)\n", len(faces))
	return nil
}
