//go:build darwin

package main

import "path/filepath"

// <App>.app/Contents/MacOS/<exe> keeps its resources in Contents/Resources
func resourceDir() (string, error) {
	dir, err := executableDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "..", "Resources"), nil
}
