package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
	Player    PlayerConfig    `yaml:"player,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// TelemetryConfig contains the analytics workspace and beacon output settings
type TelemetryConfig struct {
	WorkspaceID string `yaml:"workspace_id,omitempty"`
	// Optional override of the beacon endpoint, stamped on every beacon
	BeaconURL     string `yaml:"beacon_url,omitempty"`
	EnableLogging bool   `yaml:"enable_logging,omitempty"`
	// File beacons are appended to as JSON lines.  Empty or "-" writes to stdout.
	OutboxPath string            `yaml:"outbox_path,omitempty"`
	CustomData map[string]string `yaml:"custom_data,omitempty"`
}

// PlayerConfig contains media player settings
type PlayerConfig struct {
	Type string `yaml:"type,omitempty"` // "mpv"
	Path string `yaml:"path,omitempty"`
	Args string `yaml:"args,omitempty"`
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `yaml:"level,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
	Format   string `yaml:"format,omitempty"` // "json", "text"
}

// Load builds a configuration struct from multiple sources using these steps:
// 1. Create a base config with default values
// 2. If no config file exists on disk, save the default config to that location
// 3. Apply 'dynamic' properties.  Dynamic properties are those that are determined at runtime, for example log file location which is different per OS.
// 4. Load & merge the config file, overwriting any defaults with user-specified values
// 5. Apply environment variable overrides
func Load() (*Config, error) {
	cfg := createBaseDefaultConfig()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to determine config file path: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// Startup continues on the defaults if the default file cannot be written
		_ = save(cfg, configPath)
	}

	applyDynamicDefaults(cfg)

	fileConfig, err := loadFromDisk(configPath)
	if err != nil {
		return nil, err
	}
	if err = mergo.Merge(cfg, fileConfig, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("error merging config loaded from disk: %w", err)
	}

	applyEnvVarOverrides(cfg)

	return cfg, nil
}

// applyDynamicDefaults sets runtime-determined default values.  These are never written to disk.
func applyDynamicDefaults(cfg *Config) {
	cfg.Logging.FilePath = defaultLogFilePath()
}

// loadFromDisk loads the YAML config from disk and returns the unmarshalled Config
func loadFromDisk(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}

func save(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// UpdateConfig reads the existing config, applies the update function, and saves it back to disk
func UpdateConfig(updateFn func(*Config)) error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("unable to determine config file path: %w", err)
	}

	cfg, err := loadFromDisk(configPath)
	if err != nil {
		return fmt.Errorf("error loading config file from disk: %w", err)
	}

	updateFn(cfg)

	return save(cfg, configPath)
}

// getConfigPath returns the path to the config file.  Uses the environment variable override if present, else
// the OS config location.
func getConfigPath() (string, error) {
	if configPath := os.Getenv("PLAYERDATA_CONFIG_PATH"); configPath != "" {
		return configPath, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "playerdata", "config.yaml"), nil
}

func createBaseDefaultConfig() *Config {
	return &Config{
		Telemetry: TelemetryConfig{
			OutboxPath: "-",
		},
		Player: PlayerConfig{
			Type: "mpv",
			Path: "mpv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// defaultLogFilePath returns the path to the log file, using the expected OS locations
func defaultLogFilePath() string {
	var basePath string
	homedir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "playerdata.log")
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			basePath = filepath.Join(appData, "playerdata", "logs")
		} else {
			basePath = filepath.Join(homedir, "AppData", "local", "playerdata", "logs")
		}
	case "darwin":
		basePath = filepath.Join(homedir, "Library", "Logs", "playerdata")
	default:
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			basePath = filepath.Join(xdgState, "playerdata", "logs")
		} else {
			basePath = filepath.Join(homedir, ".local", "state", "playerdata", "logs")
		}
	}

	if err := os.MkdirAll(basePath, 0700); err != nil {
		return filepath.Join(".", "playerdata.log")
	}
	return filepath.Join(basePath, "playerdata.log")
}
