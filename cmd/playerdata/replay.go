package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/playback"
	"github.com/PizzaHomicide/playerdata/internal/replay"
	"github.com/PizzaHomicide/playerdata/internal/version"
)

var replayOpts struct {
	video videoFlags
}

var replayCmd = &cobra.Command{
	Use:   "replay <trace.yaml>",
	Short: "Replay a recorded signal trace through a playback session",
	Long: `Replays the raw engine signals of a trace file, as saved by 'watch --record',
through a playback session and writes the resulting beacons to the outbox.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayOpts.video.register(replayCmd)
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	trace, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	client, err := newTelemetryClient(replayOpts.video)
	if err != nil {
		return err
	}

	engine := replay.NewEngine(trace)
	session := playback.NewSession(engine, client,
		playback.WithLogging(cfg.Telemetry.EnableLogging),
		playback.WithSoftware(version.SDKName, version.GetVersion()),
	)

	playErr := engine.Play(cmd.Context())
	log.Info("Replay finished", "trace", args[0], "view_id", client.ViewID(), "state", session.State())

	if err := session.Release(); err != nil {
		return fmt.Errorf("failed to release session: %w", err)
	}
	if playErr != nil {
		return fmt.Errorf("replay failed: %w", playErr)
	}
	return nil
}
