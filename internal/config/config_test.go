package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imgconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, ProgressLog, cfg.Progress)
	assert.False(t, cfg.Verbose)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
workers: 8
verbose: true
log_file: /tmp/imgconv.log
progress: bar
jpeg_quality: 80
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "/tmp/imgconv.log", cfg.LogFile)
	assert.Equal(t, ProgressBar, cfg.Progress)
	assert.Equal(t, 80, cfg.JPEGQuality)
	assert.Equal(t, 90, cfg.WebPQuality, "unset keys keep their defaults")
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadFileEmpty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown key", "threads: 3\n", "field threads not found"},
		{"zero workers", "workers: 0\n", "workers must be at least 1"},
		{"bad progress", "progress: spinner\n", "invalid progress mode"},
		{"quality out of range", "webp_quality: 150\n", "webp_quality"},
		{"malformed yaml", "workers: [\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("files created", "png", 2)

	assert.Contains(t, stderr.String(), "files created")
	assert.NotContains(t, stderr.String(), "hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "files created", record["msg"])
	assert.Equal(t, float64(2), record["png"])
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	logger.Info("to file")
	require.NoError(t, cleanup())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"to file"`)
}

func TestSetupLoggerNoFile(t *testing.T) {
	logger, cleanup := SetupLogger("", slog.LevelInfo)
	require.NotNil(t, logger)
	assert.NoError(t, cleanup())
}
