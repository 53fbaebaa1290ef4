package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/devpanel/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestSetupWritesLogFile(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := Setup(dir, config.LogConfig{Level: "debug", MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Debug("Clipboard classified", "category", "json")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "logs", "devpanel.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Clipboard classified")
	assert.Contains(t, string(data), "category=json")
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, _, err := Setup(t.TempDir(), config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
