package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lkarlslund/camwatch/internal/config"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "camwatch",
	Short: "Face boxes and template tracking on a live camera feed",
	Long: `camwatch runs two small OpenCV tools against a camera, a video file or
(on Windows) a desktop window:

  detect  grab one frame, draw a box around every face and wait for a key
  track   select a region once, then follow it across every frame

Settings come from defaults, an optional YAML file (--config), CAMWATCH_*
environment variables (a .env file is read when present) and flags, in
increasing precedence.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-frame details")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig merges the config file, environment and the camera flags shared
// by detect and track. Command specific flags are applied by the caller
// before validation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Camera.Device = mustGetInt(cmd, "device")
	}
	if flags.Changed("file") {
		cfg.Camera.File = mustGetString(cmd, "file")
	}
	if flags.Changed("window") {
		cfg.Camera.Window = mustGetString(cmd, "window")
	}
	if mustGetBool(cmd, "no-mirror") {
		cfg.Camera.Mirror = false
	}
	if flags.Changed("snapshot-dir") {
		cfg.SnapshotDir = mustGetString(cmd, "snapshot-dir")
	}
	if flags.Changed("box-color") {
		cfg.Draw.BoxColor = mustGetColor(cmd, "box-color")
	}
	if flags.Changed("font-color") {
		cfg.Draw.FontColor = mustGetColor(cmd, "font-color")
	}
	return cfg, nil
}

func addCameraFlags(cmd *cobra.Command) {
	cmd.Flags().Int("device", 0, "Camera device index")
	cmd.Flags().String("file", "", "Read frames from a video file instead of a camera")
	cmd.Flags().String("window", "", "Capture a desktop window by title (Windows only)")
	cmd.Flags().Bool("no-mirror", false, "Do not flip frames horizontally")
	cmd.Flags().String("snapshot-dir", "", "Directory for PNG snapshots of annotated frames")

	defaults := config.Default().Draw
	boxColor, fontColor := defaults.BoxColor, defaults.FontColor
	cmd.Flags().Var(&boxColor, "box-color", "Box color as #rrggbb or r,g,b")
	cmd.Flags().Var(&fontColor, "font-color", "Label color as #rrggbb or r,g,b")
}
