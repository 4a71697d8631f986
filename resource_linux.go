//go:build linux

package main

import "path/filepath"

const appName = "video-tool"

func resourceDir() (string, error) {
	dir, err := executableDir()
	if err != nil {
		return "", err
	}
	// packaged installs put the executable in <prefix>/bin and resources in <prefix>/lib/<app>
	if filepath.Base(dir) == "bin" {
		return filepath.Join(dir, "..", "lib", appName), nil
	}
	return dir, nil
}
