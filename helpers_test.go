package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

const fakeProbeScript = `for last; do :; done
if [ ! -e "$last" ]; then
	echo "$last: No such file or directory" >&2
	exit 1
fi
echo '{"streams": [{"index": 0, "codec_type": "video"}], "format": {"format_name": "matroska,webm"}}'
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticDir is a DirProvider with a fixed answer that counts its calls
type staticDir struct {
	dir   string
	err   error
	calls *int
}

func (d staticDir) Name() string { return "static dir" }

func (d staticDir) Dir() (string, error) {
	if d.calls != nil {
		*d.calls++
	}
	return d.dir, d.err
}

// writeTool writes a shell script standing in for a bundled binary
func writeTool(t *testing.T, dir, name, script string, mode os.FileMode) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), mode))
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
