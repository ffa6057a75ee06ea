package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()

	tmpConfigPath := filepath.Join(t.TempDir(), "config.yaml")
	setEnv(t, "PLAYERDATA_CONFIG_PATH", tmpConfigPath)

	t.Cleanup(func() {
		cleanupEnvVars(t)
	})

	return tmpConfigPath
}

// TestConfigIntegration tests the config package with actual file operations
// This test uses a temporary directory to avoid interfering with real user configs
func TestConfigIntegration(t *testing.T) {
	t.Run("LoadDefaultConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		config := loadConfig(t)

		assert.Equal(t, "mpv", config.Player.Type)
		assert.Equal(t, "mpv", config.Player.Path)
		assert.Equal(t, "-", config.Telemetry.OutboxPath)
		assert.False(t, config.Telemetry.EnableLogging)
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, "json", config.Logging.Format)
		assert.NotEmpty(t, config.Logging.FilePath)

		if _, err := os.Stat(tmpConfigPath); os.IsNotExist(err) {
			t.Errorf("Config file was not created at %s", tmpConfigPath)
		}

		// The 'dynamic' configurations must not be saved when the default config is written
		savedConfig, _ := loadFromDisk(tmpConfigPath)
		assert.Empty(t, savedConfig.Logging.FilePath)
	})

	t.Run("SaveAndLoadConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		customConfig := &Config{
			Telemetry: TelemetryConfig{
				WorkspaceID:   "ws-1234",
				BeaconURL:     "https://beacon.example.com",
				EnableLogging: true,
				OutboxPath:    "/var/lib/playerdata/outbox.jsonl",
				CustomData:    map[string]string{"custom_1": "premium"},
			},
			Player: PlayerConfig{
				Type: "mpv",
				Path: "/usr/local/bin/mpv",
				Args: "--mute=yes",
			},
			Logging: LoggingConfig{
				Level:    "error",
				FilePath: "/var/log/playerdata.log",
				Format:   "text",
			},
		}

		saveConfig(t, customConfig, tmpConfigPath)
		loadedConfig := loadConfig(t)

		assert.Equal(t, "ws-1234", loadedConfig.Telemetry.WorkspaceID)
		assert.Equal(t, "https://beacon.example.com", loadedConfig.Telemetry.BeaconURL)
		assert.True(t, loadedConfig.Telemetry.EnableLogging)
		assert.Equal(t, "/var/lib/playerdata/outbox.jsonl", loadedConfig.Telemetry.OutboxPath)
		assert.Equal(t, map[string]string{"custom_1": "premium"}, loadedConfig.Telemetry.CustomData)
		assert.Equal(t, "/usr/local/bin/mpv", loadedConfig.Player.Path)
		assert.Equal(t, "--mute=yes", loadedConfig.Player.Args)
		assert.Equal(t, "error", loadedConfig.Logging.Level)
		assert.Equal(t, "/var/log/playerdata.log", loadedConfig.Logging.FilePath)
		assert.Equal(t, "text", loadedConfig.Logging.Format)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		if err := os.WriteFile(tmpConfigPath, []byte("invalid: yaml: ["), 0600); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := Load()
		if err == nil {
			t.Error("Expected error when loading invalid YAML, got nil")
		}
	})

	t.Run("EnvironmentVariableOverrides", func(t *testing.T) {
		setupTestConfig(t)

		setEnv(t, "PLAYERDATA_CONFIG_TELEMETRY_WORKSPACE_ID", "ws-env")
		setEnv(t, "PLAYERDATA_CONFIG_TELEMETRY_BEACON_URL", "https://env.example.com")
		setEnv(t, "PLAYERDATA_CONFIG_TELEMETRY_ENABLE_LOGGING", "true")
		setEnv(t, "PLAYERDATA_CONFIG_TELEMETRY_OUTBOX_PATH", "/tmp/outbox.jsonl")
		setEnv(t, "PLAYERDATA_CONFIG_PLAYER_PATH", "/opt/mpv")
		setEnv(t, "PLAYERDATA_CONFIG_PLAYER_ARGS", "--fullscreen")
		setEnv(t, "PLAYERDATA_CONFIG_LOGGING_LEVEL", "warn")
		setEnv(t, "PLAYERDATA_CONFIG_LOGGING_FILE_PATH", "/playerdata.log")
		setEnv(t, "PLAYERDATA_CONFIG_LOGGING_FORMAT", "text")

		config := loadConfig(t)

		assert.Equal(t, "ws-env", config.Telemetry.WorkspaceID)
		assert.Equal(t, "https://env.example.com", config.Telemetry.BeaconURL)
		assert.True(t, config.Telemetry.EnableLogging)
		assert.Equal(t, "/tmp/outbox.jsonl", config.Telemetry.OutboxPath)
		assert.Equal(t, "/opt/mpv", config.Player.Path)
		assert.Equal(t, "--fullscreen", config.Player.Args)
		assert.Equal(t, "warn", config.Logging.Level)
		assert.Equal(t, "/playerdata.log", config.Logging.FilePath)
		assert.Equal(t, "text", config.Logging.Format)

		// Env var overrides must not be persisted to disk
		unsetEnv(t, "PLAYERDATA_CONFIG_LOGGING_LEVEL")

		config = loadConfig(t)

		assert.Equal(t, "info", config.Logging.Level)
	})

	t.Run("ModifyConfig", func(t *testing.T) {
		setupTestConfig(t)
		config := loadConfig(t)

		assert.Empty(t, config.Telemetry.WorkspaceID)

		err := UpdateConfig(func(config *Config) {
			config.Telemetry.WorkspaceID = "ws-updated"
		})
		if err != nil {
			t.Fatalf("Failed to update config: %v", err)
		}

		config = loadConfig(t)
		assert.Equal(t, "ws-updated", config.Telemetry.WorkspaceID)
	})
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", " yes ", "on"} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"0", "false", "no", "", "maybe"} {
		assert.False(t, parseBool(s), s)
	}
}

func TestEnvVarHelpListsEveryVariable(t *testing.T) {
	help := EnvVarHelp()

	assert.Len(t, help, len(supportedEnvVars))
	for _, entry := range help {
		assert.True(t, strings.HasPrefix(entry[0], "PLAYERDATA_CONFIG_"), entry[0])
		assert.NotEmpty(t, entry[1])
	}
}

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("Failed to set environment variable: %v", err)
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Failed to unset environment variable: %v", err)
	}
}

func saveConfig(t *testing.T, config *Config, configPath string) {
	t.Helper()
	if err := save(config, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
}

func loadConfig(t *testing.T) *Config {
	t.Helper()
	config, err := Load()
	if err != nil {
		t.Fatalf("Loading of config failed: %v", err)
	}
	return config
}

// Removes any env vars with the PLAYERDATA_CONFIG prefix to ensure test isolation
func cleanupEnvVars(t *testing.T) {
	t.Helper()

	for _, envVar := range os.Environ() {
		if key := strings.Split(envVar, "=")[0]; strings.HasPrefix(key, "PLAYERDATA_CONFIG") {
			unsetEnv(t, key)
		}
	}
}
