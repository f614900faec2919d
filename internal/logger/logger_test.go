package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.Level)
	assert.True(t, cfg.Console())
	assert.Equal(t, "text", cfg.ConsoleFormat)
	assert.False(t, cfg.FileEnabled)
	assert.Equal(t, "logs/enchant.log", cfg.FilePath)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`logging:
  level: DEBUG
  console_enabled: false
  file_enabled: true
  file_path: test.log
  file_max_size_mb: 20
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Level)
	assert.False(t, cfg.Console())
	assert.True(t, cfg.FileEnabled)
	assert.Equal(t, "test.log", cfg.FilePath)
	assert.Equal(t, 20, cfg.FileMaxSizeMB)
	assert.Equal(t, 5, cfg.FileMaxBackups, "unset fields keep defaults")
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/tmp/x.log")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.Level)
	assert.Equal(t, "json", cfg.ConsoleFormat)
	assert.True(t, cfg.FileEnabled)
	assert.Equal(t, "/tmp/x.log", cfg.FilePath)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "WARN"
	l, closer := New(cfg, &buf)
	defer closer.Close()

	l.Info("hidden")
	l.Warn("shown")
	Always(l, "always shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "level=ALWAYS")
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.ConsoleFormat = "json"
	cfg.FileEnabled = true
	cfg.FilePath = filepath.Join(t.TempDir(), "enchant.log")

	l, closer := New(cfg, &buf)
	l.With("run_id", "abc").Info("simulation finished", "runs", 10)
	require.NoError(t, closer.Close())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "simulation finished", rec["msg"])
	assert.Equal(t, "abc", rec["run_id"])

	data, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"runs":10`))
}

func TestNewNoOutputsFallsBackToConsole(t *testing.T) {
	var buf bytes.Buffer
	off := false
	cfg := DefaultConfig()
	cfg.ConsoleEnabled = &off
	l, _ := New(cfg, &buf)
	l.Info("still here")
	assert.Contains(t, buf.String(), "still here")
}
