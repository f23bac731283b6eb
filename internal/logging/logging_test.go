package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "expair.log")

	logger, err := New(true, path)
	require.NoError(t, err)
	logger.Debug("debug line")
	logger.Info("info line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug line")
	assert.Contains(t, string(data), "info line")
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expair.log")

	logger, err := New(false, path)
	require.NoError(t, err)
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u/.config/expair", "expair.log"), FilePath("/home/u/.config/expair/config.yaml"))
}
