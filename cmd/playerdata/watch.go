package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/playback"
	"github.com/PizzaHomicide/playerdata/internal/player"
	"github.com/PizzaHomicide/playerdata/internal/replay"
	"github.com/PizzaHomicide/playerdata/internal/version"
)

var watchOpts struct {
	video       videoFlags
	record      string
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch <url>",
	Short: "Play a URL in the configured player and emit playback events",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchOpts.video.register(watchCmd)
	watchCmd.Flags().StringVar(&watchOpts.record, "record", "", "save the raw engine signals to this trace file")
	watchCmd.Flags().StringVar(&watchOpts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	url := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchOpts.metricsAddr != "" {
		srv := serveMetrics(watchOpts.metricsAddr)
		defer srv.Close()
	}

	client, err := newTelemetryClient(watchOpts.video)
	if err != nil {
		return err
	}

	videoPlayer, err := player.CreateVideoPlayer(cfg)
	if err != nil {
		_ = client.Release()
		return err
	}
	defer videoPlayer.Cleanup()

	session := playback.NewSession(videoPlayer, client,
		playback.WithLogging(cfg.Telemetry.EnableLogging),
		playback.WithSoftware(version.SDKName, version.GetVersion()),
	)

	var recorder *replay.Recorder
	if watchOpts.record != "" {
		recorder = replay.NewRecorder(url, videoPlayer.IsAutoPlay())
		videoPlayer.AddListener(recorder)
	}

	if err := videoPlayer.Play(ctx, url); err != nil {
		_ = session.Release()
		return fmt.Errorf("failed to start playback: %w", err)
	}
	log.Info("Watching", "url", url, "view_id", client.ViewID(), "mime_type", session.MimeType())

	select {
	case <-ctx.Done():
		log.Info("Interrupted, stopping playback")
	case <-videoPlayer.Done():
		log.Info("Player finished")
	}

	log.Info("Playback session finished", "state", session.State(), "playhead_ms", session.Playhead())
	if code, message := session.LastError(); code != "" {
		log.Warn("Playback ended with an engine error", "code", code, "message", message)
	}

	var errs []error
	if err := session.Release(); err != nil {
		errs = append(errs, fmt.Errorf("failed to release session: %w", err))
	}

	if recorder != nil {
		videoPlayer.RemoveListener(recorder)
		if err := recorder.Trace(videoPlayer.IsLive()).Save(watchOpts.record); err != nil {
			errs = append(errs, fmt.Errorf("failed to save trace: %w", err))
		} else {
			log.Info("Saved signal trace", "path", watchOpts.record)
		}
	}

	return errors.Join(errs...)
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
