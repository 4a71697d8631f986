package main

import (
	"path/filepath"
	"strings"
)

const defaultMimeType = "application/octet-stream"

var mimeTypes = map[string]string{
	"html": "text/html; charset=utf-8",
	"js":   "text/javascript; charset=utf-8",
	"css":  "text/css; charset=utf-8",
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"ico":  "image/x-icon",
	"json": "application/json; charset=utf-8",
}

// GuessMimeType returns the content type for a file name based on its extension
func GuessMimeType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return defaultMimeType
}
