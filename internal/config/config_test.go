package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WLOG_HOME", "/tmp/wlog-home")
	t.Setenv("WLOG_OUTPUT_DIR", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/wlog-home", cfg.Home)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.True(t, cfg.CompressPDF)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wlog.yaml")
	content := []byte("home: /srv/wlog\noutput_dir: /srv/out\nlog:\n  level: debug\n  format: json\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("WLOG_HOME", "")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/wlog", cfg.Home)
	assert.Equal(t, "/srv/out", cfg.OutputDir)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "warn", cfg.Log.Level, "environment overrides the file")
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("WLOG_HOME", "/tmp/wlog-home")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/wlog-home", cfg.Home)
}

func TestConfig_GetLoggerConfig(t *testing.T) {
	cfg := &Config{
		Home:      "/h",
		OutputDir: ".",
		Log:       LogConfig{Level: "debug", Format: "json", TimeFormat: "unix", Output: "stdout"},
	}

	lc := cfg.GetLoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "unix", lc.TimeFormat)
	assert.Equal(t, "stdout", lc.Output)
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, (&Config{OutputDir: "."}).Validate())
	assert.Error(t, (&Config{Home: "/h"}).Validate())
	assert.NoError(t, (&Config{Home: "/h", OutputDir: "."}).Validate())
}
