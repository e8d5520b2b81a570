package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	log, err := NewLogger(Config{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)

	ForFile(log, "soc.lia").Info("dropped")
	ForFile(log, "soc.lia").Warn("No pin definitions found")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "No pin definitions found", entry["msg"])
	assert.Equal(t, "soc.lia", entry["file"])
}

func TestNewLoggerBadLevelFallsBackToInfo(t *testing.T) {
	log, err := NewLogger(Config{Level: "chatty", OutputPath: filepath.Join(t.TempDir(), "log.txt")})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
