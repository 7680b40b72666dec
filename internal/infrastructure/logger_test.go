package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgmap/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	runID := NewRunID()
	assert.NotEmpty(t, runID)

	ctx = WithRunID(ctx, runID)
	assert.Equal(t, runID, GetRunID(ctx))
}

func TestRunIDHandler_InjectsRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runIDHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "stage complete", slog.Int("rows", 10))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, float64(10), entry["rows"])
}

func TestInitializeLogger_InstallsDefault(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	logger, err := InitializeLogger(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "console",
	})
	require.NoError(t, err)

	// Callers rely on this: the binaries never install the default
	// themselves.
	assert.Same(t, logger, slog.Default())
}

func TestCreateLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	logger, err := createLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)

	logger.Info("hello")
	assert.FileExists(t, path)
}
