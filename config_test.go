package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:1420", cfg.DevServer.Addr)
	assert.Equal(t, "index.html", cfg.DevServer.Index)
	assert.Equal(t, "binaries", cfg.Binaries.Dir)
	assert.Equal(t, "ffprobe", cfg.Binaries.ProbeTool)
}

func TestValidate_Addr(t *testing.T) {
	cfg := Defaults()
	cfg.DevServer.Addr = "127.0.0.1:70000"
	assert.Error(t, cfg.Validate())

	cfg.DevServer.Addr = "localhost"
	assert.Error(t, cfg.Validate())

	cfg.DevServer.Addr = "127.0.0.1:0"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyFields(t *testing.T) {
	cfg := Defaults()
	cfg.DevServer.Root = ""
	cfg.Binaries.ProbeTool = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev_server.root")
	assert.Contains(t, err.Error(), "binaries.probe_tool")
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())

	for _, level := range []string{"debug", "INFO", "warn", "error"} {
		cfg.LogLevel = level
		assert.NoError(t, cfg.Validate(), level)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
log_level: debug
dev_server:
  addr: 127.0.0.1:5173
  root: web
binaries:
  probe_tool: ffprobe-static
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:5173", cfg.DevServer.Addr)
	assert.Equal(t, "web", cfg.DevServer.Root)
	assert.Equal(t, "ffprobe-static", cfg.Binaries.ProbeTool)
	// untouched fields keep their defaults
	assert.True(t, cfg.DevServer.Enabled)
	assert.Equal(t, "index.html", cfg.DevServer.Index)
	assert.Equal(t, "binaries", cfg.Binaries.Dir)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("dev_server: ["), 0o644))
	_, err := LoadConfig(malformed)
	assert.Error(t, err)

	badPort := filepath.Join(dir, "port.yaml")
	writeFile(t, badPort, "dev_server:\n  addr: 127.0.0.1:-1\n")
	_, err = LoadConfig(badPort)
	assert.Error(t, err)
}
