package logging_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("loud"))
}

func TestNewHandler_JSONRespectsLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(logging.NewHandler(&buf, config.LoggingConfig{Level: "warn", Format: "json"}))

	// Act
	logger.Info("hidden")
	logger.Warn("poll failed", "planet_id", "abc")

	// Assert
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"poll failed"`)
	assert.Contains(t, buf.String(), `"planet_id":"abc"`)
}

func TestNew_FileOutput(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "logs", "client.log")

	// Act
	logger, closer, err := logging.New(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: path})
	require.NoError(t, err)
	logger.Info("session established")
	require.NoError(t, closer.Close())

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session established")
}
