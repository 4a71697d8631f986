//go:build !release

package main

// debugBuild enables the dev server in the run command. Build with -tags release to turn it off.
const debugBuild = true
