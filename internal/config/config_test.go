package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/machinesim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "machinesim.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
interval = 5
listen = ":9090"
history = 250
seed = 42
autostart = true
log_level = "debug"
telemetry = true
database = "/path/to/telemetry.db"
`)
	t.Setenv("MACHINESIM_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Interval, "Expected Interval 5")
	assert.Equal(t, ":9090", cfg.Listen, "Expected Listen :9090")
	assert.Equal(t, 250, cfg.HistorySize, "Expected HistorySize 250")
	assert.Equal(t, int64(42), cfg.Seed, "Expected Seed 42")
	assert.True(t, cfg.Autostart, "Expected Autostart true")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/path/to/telemetry.db", cfg.TelemetryDB, "Expected TelemetryDB /path/to/telemetry.db")
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("MACHINESIM_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval, "Expected default Interval")
	assert.Equal(t, config.DefaultListen, cfg.Listen, "Expected default Listen")
	assert.Equal(t, config.DefaultHistorySize, cfg.HistorySize, "Expected default HistorySize")
	assert.Equal(t, int64(0), cfg.Seed, "Expected default Seed 0")
	assert.False(t, cfg.Autostart, "Expected default Autostart false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.False(t, cfg.Telemetry, "Expected default Telemetry false")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("MACHINESIM_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("MACHINESIM_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_log_level")
}

func TestInvalidInterval(t *testing.T) {
	configPath := writeConfig(t, `
interval = 0
`)
	t.Setenv("MACHINESIM_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_interval")
}

func TestLogLevelFlag(t *testing.T) {
	// Save original args and restore after test
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Setenv("MACHINESIM_CONFIG", "")
	os.Args = []string{"machinesim", "--log-level", "debug", "--interval", "3"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, 3, cfg.Interval, "Expected Interval to be set by flag")
}
