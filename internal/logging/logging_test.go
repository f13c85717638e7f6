package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closeFn, err := Setup(logFile, false)
	require.NoError(t, err)

	logger.Info("pipeline started", "rows", 3)
	closeFn()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "pipeline started")
	assert.Contains(t, string(content), "rows=3")
	assert.Contains(t, string(content), "level=INFO")
}

func TestSetupAppends(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	for _, msg := range []string{"first run", "second run"} {
		logger, closeFn, err := Setup(logFile, false)
		require.NoError(t, err)
		logger.Info(msg)
		closeFn()
	}

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "first run")
	assert.Contains(t, string(content), "second run")
}

func TestSetupVerboseEnablesDebug(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	logger, closeFn, err := Setup(logFile, true)
	require.NoError(t, err)
	logger.Debug("low-level detail")
	closeFn()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "low-level detail")
}

func TestSetupNoFileIsStderrOnly(t *testing.T) {
	logger, closeFn, err := Setup("", false)
	require.NoError(t, err)
	defer closeFn()

	assert.NotNil(t, logger)
}
