package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkarlslund/camwatch/internal/config"
	"github.com/lkarlslund/camwatch/internal/vision"
)

func cameraCmd(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addCameraFlags(c)
	return c
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("CAMWATCH_DEVICE", "3")
	t.Setenv("CAMWATCH_FILE", "env.mp4")

	c := cameraCmd(t)
	require.NoError(t, c.Flags().Set("device", "1"))
	require.NoError(t, c.Flags().Set("no-mirror", "true"))
	require.NoError(t, c.Flags().Set("snapshot-dir", "shots"))

	cfg, err := loadConfig(c)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Camera.Device)
	assert.Equal(t, "env.mp4", cfg.Camera.File)
	assert.False(t, cfg.Camera.Mirror)
	assert.Equal(t, "shots", cfg.SnapshotDir)
}

func TestLoadConfigColorFlags(t *testing.T) {
	c := cameraCmd(t)
	require.NoError(t, c.Flags().Set("box-color", "255,0,0"))
	require.NoError(t, c.Flags().Set("font-color", "#0000ff"))

	cfg, err := loadConfig(c)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", cfg.Draw.BoxColor.String())
	assert.Equal(t, "#0000ff", cfg.Draw.FontColor.String())
	assert.Equal(t, cfg.Draw.BoxColor.RGBA(), cfg.Style().BoxColor)
}

func TestColorFlagRejectsGarbage(t *testing.T) {
	assert.Error(t, cameraCmd(t).Flags().Set("box-color", "greenish"))
}

func TestColorFlagDefaultsShown(t *testing.T) {
	f := cameraCmd(t).Flags().Lookup("box-color")
	require.NotNil(t, f)
	assert.Equal(t, config.Default().Draw.BoxColor.String(), f.DefValue)
}

func TestLoadConfigUnsetFlagsKeepDefaults(t *testing.T) {
	cfg, err := loadConfig(cameraCmd(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestTrackOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Track.Method = "SQDIFF_NORMED"
	cfg.Track.MinThreshold = 0.65
	cfg.Track.ExitKey = "esc"
	cfg.Track.SnapshotKey = ""

	opts, err := trackOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, vision.SqDiffNormed, opts.Method)
	assert.Equal(t, 0.65, opts.MinThreshold)
	assert.Equal(t, rune(27), opts.ExitKey)
	assert.Zero(t, opts.SnapshotKey)
	assert.Equal(t, vision.DefaultStyle(), opts.Style)
}

func TestTrackOptionsRejectsUnknownMethod(t *testing.T) {
	cfg := config.Default()
	cfg.Track.Method = "magic"
	_, err := trackOptions(cfg)
	assert.Error(t, err)
}

func TestOpenSnapshotsDisabled(t *testing.T) {
	s, err := openSnapshots("")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"detect", "track", "version"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, trackCmd.Flags().Lookup("threshold"))
	assert.NotNil(t, detectCmd.Flags().Lookup("no-window"))
}
