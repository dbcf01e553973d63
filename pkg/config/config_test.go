package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, ":8081", cfg.Signal.Address)
	assert.Equal(t, 800*time.Millisecond, cfg.Player.ProgressPollInterval)
	assert.False(t, cfg.Store.Enabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Address, cfg.Server.Address)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  address: ":9090"
signal:
  address: ":9091"
player:
  widget_control_url: "http://widget:7000"
  progress_poll_interval: 500ms
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, ":9091", cfg.Signal.Address)
	assert.Equal(t, "http://widget:7000", cfg.Player.WidgetControlURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Player.ProgressPollInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Sections the file does not mention keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Sync.BoardCacheTTL)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
player:
  progress_poll_interval: -1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VIDBOARD_SIGNAL_ADDRESS", ":7777")
	t.Setenv("VIDBOARD_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Signal.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidateCatchesBlankAddresses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Signal.Address = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Identity.SessionSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Store.Enabled = true
	cfg.Store.Address = ""
	assert.Error(t, cfg.Validate())
}
