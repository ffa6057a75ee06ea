package config

import (
	"os"
	"strings"
)

type envVar struct {
	name  string
	desc  string
	apply func(*Config, string)
}

var supportedEnvVars = []envVar{
	{
		// Documentation only.  It selects which file is loaded and is read before loading.
		name:  "PLAYERDATA_CONFIG_PATH",
		desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) {},
	},
	{
		name:  "PLAYERDATA_CONFIG_TELEMETRY_WORKSPACE_ID",
		desc:  "Sets the analytics workspace identifier.  Default: None",
		apply: func(c *Config, s string) { c.Telemetry.WorkspaceID = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_TELEMETRY_BEACON_URL",
		desc:  "Overrides the beacon endpoint stamped on beacons.  Default: None",
		apply: func(c *Config, s string) { c.Telemetry.BeaconURL = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_TELEMETRY_ENABLE_LOGGING",
		desc:  "Logs every dispatched playback event.  One of: true, false.  Default: false",
		apply: func(c *Config, s string) { c.Telemetry.EnableLogging = parseBool(s) },
	},
	{
		name:  "PLAYERDATA_CONFIG_TELEMETRY_OUTBOX_PATH",
		desc:  "Sets the file beacons are appended to.  `-` writes to stdout.  Default: -",
		apply: func(c *Config, s string) { c.Telemetry.OutboxPath = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_PLAYER_TYPE",
		desc:  "Sets the video player type.  Should be `mpv`.  Default: mpv",
		apply: func(c *Config, s string) { c.Player.Type = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_PLAYER_PATH",
		desc:  "Sets the path to a video player binary.  Default: mpv",
		apply: func(c *Config, s string) { c.Player.Path = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_PLAYER_ARGS",
		desc:  "Sets additional video player arguments.  Default: None",
		apply: func(c *Config, s string) { c.Player.Args = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_LOGGING_LEVEL",
		desc:  "Sets the logging level.  One of: trace, debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) { c.Logging.Level = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_LOGGING_FILE_PATH",
		desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) { c.Logging.FilePath = s },
	},
	{
		name:  "PLAYERDATA_CONFIG_LOGGING_FORMAT",
		desc:  "Sets the log format.  One of: json, text.  Default: json",
		apply: func(c *Config, s string) { c.Logging.Format = s },
	},
}

func applyEnvVarOverrides(c *Config) {
	for _, envVar := range supportedEnvVars {
		if value := os.Getenv(envVar.name); value != "" {
			envVar.apply(c, value)
		}
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// EnvVarHelp returns the supported environment variables and their descriptions, in declaration order
func EnvVarHelp() [][2]string {
	help := make([][2]string, 0, len(supportedEnvVars))
	for _, v := range supportedEnvVars {
		help = append(help, [2]string{v.name, v.desc})
	}
	return help
}
