package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizzaHomicide/playerdata/internal/telemetry"
	"github.com/PizzaHomicide/playerdata/internal/version"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PLAYERDATA_CONFIG_PATH", filepath.Join(dir, "config.yaml"))
	t.Setenv("PLAYERDATA_CONFIG_LOGGING_FILE_PATH", filepath.Join(dir, "playerdata.log"))
	t.Setenv("PLAYERDATA_CONFIG_TELEMETRY_WORKSPACE_ID", "ws-test")
	return dir
}

func readBeacons(t *testing.T, path string) []telemetry.Beacon {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var beacons []telemetry.Beacon
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var b telemetry.Beacon
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &b))
		beacons = append(beacons, b)
	}
	require.NoError(t, scanner.Err())
	return beacons
}

func TestReplayCommandWritesBeacons(t *testing.T) {
	dir := isolateConfig(t)
	outbox := filepath.Join(dir, "beacons.jsonl")

	rootCmd.SetArgs([]string{
		"replay", filepath.Join("..", "..", "internal", "replay", "testdata", "seek.yaml"),
		"--outbox", outbox,
		"--video-id", "bunny",
		"--cdn", "example",
	})
	require.NoError(t, rootCmd.Execute())

	beacons := readBeacons(t, outbox)
	var kinds []string
	for _, b := range beacons {
		kinds = append(kinds, b.Event)
	}
	assert.Equal(t, []string{
		"viewBegin", "playerReady", "play", "playing", "seeking", "seeked", "variantChanged", "ended",
	}, kinds)

	seeked := beacons[5]
	require.NotNil(t, seeked.PositionMs)
	assert.Equal(t, int64(5000), *seeked.PositionMs)

	for i, b := range beacons {
		assert.Equal(t, uint64(i+1), b.Sequence)
		assert.Equal(t, beacons[0].ViewID, b.ViewID)
		assert.Equal(t, "ws-test", b.WorkspaceID)
		assert.Equal(t, "bunny", b.Video.ID)
		assert.Equal(t, "example", b.Video.CDN)
		assert.Equal(t, version.SDKName, b.Player.Name)
	}

	assert.FileExists(t, filepath.Join(dir, "config.yaml"), "default config is written on first run")
}

func TestReplayCommandRequiresWorkspace(t *testing.T) {
	dir := isolateConfig(t)
	t.Setenv("PLAYERDATA_CONFIG_TELEMETRY_WORKSPACE_ID", "")

	rootCmd.SetArgs([]string{
		"replay", filepath.Join("..", "..", "internal", "replay", "testdata", "seek.yaml"),
		"--outbox", filepath.Join(dir, "beacons.jsonl"),
	})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, telemetry.ErrMissingWorkspace)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, version.GetVersionInfo()+"\n", out.String())
}
