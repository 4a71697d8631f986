package main

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_DevLayoutFirst(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTool(t, "binaries", "ffprobe", fakeProbeScript, 0o755)

	var calls int
	res := &Resolver{Providers: []DirProvider{
		WorkingDir{Subdir: "binaries"},
		staticDir{dir: t.TempDir(), calls: &calls},
	}}
	path, err := res.Resolve("ffprobe")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("binaries", "ffprobe"), path)
	assert.Zero(t, calls, "the installed layout should not be consulted")
}

func TestResolve_InstalledLayout(t *testing.T) {
	t.Chdir(t.TempDir())
	installed := t.TempDir()
	want := writeTool(t, filepath.Join(installed, "binaries"), "ffprobe", fakeProbeScript, 0o755)

	res := &Resolver{Providers: []DirProvider{
		WorkingDir{Subdir: "binaries"},
		staticDir{dir: filepath.Join(installed, "binaries")},
	}}
	path, err := res.Resolve("ffprobe")
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestResolve_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	installed := filepath.Join(t.TempDir(), "binaries")

	res := &Resolver{Providers: []DirProvider{
		WorkingDir{Subdir: "binaries"},
		staticDir{dir: installed},
	}}
	_, err := res.Resolve("ffprobe")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinaryNotFound)

	var nfErr *BinaryNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, []string{filepath.Join("binaries", "ffprobe"), filepath.Join(installed, "ffprobe")}, nfErr.Tried)
	assert.Contains(t, err.Error(), "ffprobe")
	assert.Contains(t, err.Error(), filepath.Join("binaries", "ffprobe"))
	assert.Contains(t, err.Error(), filepath.Join(installed, "ffprobe"))
}

func TestResolve_ResourceDirError(t *testing.T) {
	t.Chdir(t.TempDir())

	res := &Resolver{Providers: []DirProvider{
		WorkingDir{Subdir: "binaries"},
		staticDir{err: &ResourceDirError{Err: errors.New("no executable path")}},
	}}
	_, err := res.Resolve("ffprobe")
	require.Error(t, err)

	var rdErr *ResourceDirError
	require.ErrorAs(t, err, &rdErr)
	assert.NotErrorIs(t, err, ErrBinaryNotFound)
	assert.Equal(t, "failed to resolve resource dir: no executable path", err.Error())
}

func TestNewResolver_Order(t *testing.T) {
	res := NewResolver("binaries")
	require.Len(t, res.Providers, 2)
	assert.IsType(t, WorkingDir{}, res.Providers[0])
	assert.IsType(t, ResourceDir{}, res.Providers[1])

	dir, err := res.Providers[1].Dir()
	require.NoError(t, err)
	assert.Equal(t, "binaries", filepath.Base(dir))
}

func TestToolFilename(t *testing.T) {
	if runtime.GOOS == "windows" {
		assert.Equal(t, "ffprobe.exe", ToolFilename("ffprobe"))
		assert.Equal(t, "ffprobe.exe", ToolFilename("ffprobe.exe"))
	} else {
		assert.Equal(t, "ffprobe", ToolFilename("ffprobe"))
	}
}
