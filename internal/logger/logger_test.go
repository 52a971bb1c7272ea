package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevLogger, prevLevel, prevFormat := log.Logger, zerolog.GlobalLevel(), zerolog.TimeFieldFormat
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
		zerolog.TimeFieldFormat = prevFormat
	})
}

func TestSetup_JSONFile(t *testing.T) {
	restoreGlobals(t)
	path := filepath.Join(t.TempDir(), "wlog.log")

	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))

	l := WithSession(WithComponent("generator"), "abc-123")
	l.Debug().Str("client", "globex").Msg("Rendering")
	l.Trace().Msg("filtered out")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "generator", entry["component"])
	assert.Equal(t, "abc-123", entry["session_id"])
	assert.Equal(t, "globex", entry["client"])
	assert.Equal(t, "Rendering", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestSetup_Errors(t *testing.T) {
	restoreGlobals(t)

	assert.Error(t, Setup(LogConfig{Level: "loud"}))
	assert.Error(t, Setup(LogConfig{Level: "info", Output: filepath.Join(t.TempDir(), "missing", "wlog.log")}))
}

func TestDefaultConfig(t *testing.T) {
	restoreGlobals(t)

	cfg := DefaultConfig()
	assert.Equal(t, "stderr", cfg.Output)
	require.NoError(t, Setup(cfg))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
