package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrBinaryNotFound = fmt.Errorf("bundled binary not found")
)

// DirProvider is a candidate location of bundled binaries
type DirProvider interface {
	Name() string
	Dir() (string, error)
}

// WorkingDir finds binaries relative to the current working directory (dev layout)
type WorkingDir struct {
	Subdir string
}

func (d WorkingDir) Name() string { return "working dir" }

func (d WorkingDir) Dir() (string, error) {
	return d.Subdir, nil
}

// ResourceDir finds binaries inside the installed application's resource dir
type ResourceDir struct {
	Subdir string
}

func (d ResourceDir) Name() string { return "resource dir" }

func (d ResourceDir) Dir() (string, error) {
	dir, err := resourceDir()
	if err != nil {
		return "", &ResourceDirError{Err: err}
	}
	return filepath.Join(dir, d.Subdir), nil
}

// ResourceDirError means the platform resource directory could not be determined
type ResourceDirError struct {
	Err error
}

func (err *ResourceDirError) Error() string {
	return fmt.Sprintf("failed to resolve resource dir: %v", err.Err)
}

func (err *ResourceDirError) Unwrap() error {
	return err.Err
}

// BinaryNotFoundError lists every path a binary was looked up at
type BinaryNotFoundError struct {
	Name  string
	Tried []string
}

func (err *BinaryNotFoundError) Error() string {
	quoted := make([]string, len(err.Tried))
	for i, path := range err.Tried {
		quoted[i] = fmt.Sprintf("%q", path)
	}
	return fmt.Sprintf("%v: %s (looked in %s)", ErrBinaryNotFound, err.Name, strings.Join(quoted, " and "))
}

func (err *BinaryNotFoundError) Is(target error) bool {
	return target == ErrBinaryNotFound
}

// Resolver locates bundled binaries by checking its providers in order
type Resolver struct {
	Providers []DirProvider
}

// NewResolver returns a Resolver checking the dev layout before the installed one
func NewResolver(subdir string) *Resolver {
	return &Resolver{
		Providers: []DirProvider{
			WorkingDir{Subdir: subdir},
			ResourceDir{Subdir: subdir},
		},
	}
}

// Resolve returns the first existing path of the named binary
func (res *Resolver) Resolve(name string) (string, error) {
	var tried []string
	for _, provider := range res.Providers {
		dir, err := provider.Dir()
		if err != nil {
			var rdErr *ResourceDirError
			if errors.As(err, &rdErr) {
				return "", err
			}
			return "", fmt.Errorf("%s: %w", provider.Name(), err)
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		tried = append(tried, path)
	}
	return "", &BinaryNotFoundError{Name: name, Tried: tried}
}

// ToolFilename returns the platform specific file name of a tool
func ToolFilename(tool string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(tool), ".exe") {
		return tool + ".exe"
	}
	return tool
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
