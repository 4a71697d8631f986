//go:build !darwin && !linux

package main

func resourceDir() (string, error) {
	return executableDir()
}
