package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harmonline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv("HARMONLINE_ADDR", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
	assert.Equal(t, 30*time.Millisecond, cfg.Settle())
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("HARMONLINE_ADDR", "")
	path := writeConfig(t, `
log_level: debug
key: Bb
listen:
  port: 2
  ws_addr: ":9001"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Listen.Port)
	assert.Equal(t, ":9001", cfg.Listen.WSAddr)
	// untouched fields keep their defaults
	assert.Equal(t, 30, cfg.Listen.SettleMillis)
	assert.Equal(t, ":8080", cfg.Serve.Addr)

	k, err := cfg.DefaultKey()
	require.NoError(t, err)
	assert.Equal(t, "Bb", k.RootName())
}

func TestEnvOverridesAddr(t *testing.T) {
	t.Setenv("HARMONLINE_ADDR", "127.0.0.1:7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Serve.Addr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HARMONLINE_ADDR", "")
	_, err := Load(writeConfig(t, "key: H\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log_level: loud\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Setenv("HARMONLINE_ADDR", "")
	data, err := Default().Marshal()
	require.NoError(t, err)
	cfg, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
