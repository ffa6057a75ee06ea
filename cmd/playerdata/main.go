package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PizzaHomicide/playerdata/internal/config"
	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/telemetry"
	"github.com/PizzaHomicide/playerdata/internal/version"
)

var (
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "playerdata",
	Short: "Canonical playback telemetry for media player engines",
	Long: `playerdata observes a media player engine and turns its raw callbacks into an
order-correct stream of playback events (play, playing, pause, buffering, seeking, ...),
written as beacons to an outbox.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initialise() },
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Info("playerdata shutting down")
		if logger != nil {
			logger.Close()
		}
	},
}

func init() {
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + envVarHelp())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initialise loads the configuration and sets up the default logger
func initialise() error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := log.New(log.Config{
		Level:    c.Logging.Level,
		FilePath: c.Logging.FilePath,
		Format:   c.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}

	cfg = c
	logger = l
	log.SetDefaultLogger(logger)

	log.Info("Starting up playerdata", "version", version.GetVersion(), "build_time", version.GetBuildTime())
	return nil
}

func envVarHelp() string {
	help := "\nEnvironment variables:\n"
	for _, v := range config.EnvVarHelp() {
		help += fmt.Sprintf("  %s\n      %s\n", v[0], v[1])
	}
	return help
}

// videoFlags describe the media being watched and where its beacons go
type videoFlags struct {
	id     string
	title  string
	cdn    string
	outbox string
}

func (f *videoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "video-id", "", "identifier of the video")
	cmd.Flags().StringVar(&f.title, "video-title", "", "title of the video")
	cmd.Flags().StringVar(&f.cdn, "cdn", "", "label of the CDN serving the video")
	cmd.Flags().StringVar(&f.outbox, "outbox", "", "file beacons are appended to, `-` for stdout (overrides config)")
}

// newTelemetryClient creates the sink for one playback session
func newTelemetryClient(f videoFlags) (*telemetry.Client, error) {
	outboxPath := cfg.Telemetry.OutboxPath
	if f.outbox != "" {
		outboxPath = f.outbox
	}

	jsonl, err := telemetry.OpenJSONLinesFile(outboxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open outbox: %w", err)
	}
	outbox := telemetry.MultiOutbox{jsonl, telemetry.LogOutbox{}}

	client, err := telemetry.NewClient(telemetry.Configuration{
		WorkspaceID: cfg.Telemetry.WorkspaceID,
		BeaconURL:   cfg.Telemetry.BeaconURL,
		Video: telemetry.VideoData{
			ID:    f.id,
			Title: f.title,
			CDN:   f.cdn,
		},
		Player: telemetry.PlayerData{
			Name:    version.SDKName,
			Version: version.GetVersion(),
		},
		CustomData:    cfg.Telemetry.CustomData,
		EnableLogging: cfg.Telemetry.EnableLogging,
	}, outbox)
	if err != nil {
		_ = outbox.Close()
		return nil, fmt.Errorf("failed to create telemetry client: %w", err)
	}
	return client, nil
}
