//go:build release

package main

const debugBuild = false
