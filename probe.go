package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// waitDelay bounds how long a cancelled probe waits for leftover children to release its pipes
const waitDelay = time.Second

var probeArgs = []string{"-hide_banner", "-print_format", "json", "-show_format", "-show_streams"}

// ProbeResult holds the unparsed JSON output of ffprobe
type ProbeResult struct {
	RawJSON string `json:"raw_json"`
}

func (result ProbeResult) String() string {
	return result.RawJSON
}

// SpawnError means the probe tool could not be started at all
type SpawnError struct {
	Tool string
	Err  error
}

func (err *SpawnError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", err.Tool, err.Err)
}

func (err *SpawnError) Unwrap() error {
	return err.Err
}

// ExitError means the probe tool exited with a non-zero status
type ExitError struct {
	Tool   string
	Stderr string
	Err    error
}

func (err *ExitError) Error() string {
	return fmt.Sprintf("%s error:\n%s", err.Tool, err.Stderr)
}

func (err *ExitError) Unwrap() error {
	return err.Err
}

// Prober runs the bundled probe tool against media files
type Prober struct {
	Tool     string
	Resolver *Resolver
	logger   *slog.Logger
}

// NewProber returns a Prober running tool as found by resolver
func NewProber(tool string, resolver *Resolver, logger *slog.Logger) *Prober {
	return &Prober{
		Tool:     tool,
		Resolver: resolver,
		logger:   logger,
	}
}

// Probe runs the probe tool on source and waits for it to exit. The binary is
// resolved again on every call.
func (p *Prober) Probe(ctx context.Context, source string) (*ProbeResult, error) {
	bin, err := p.Resolver.Resolve(ToolFilename(p.Tool))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("probing", "binary", bin, "source", source)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append(probeArgs, source)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Tool: p.Tool, Err: err}
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s interrupted: %w", p.Tool, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Tool: p.Tool, Stderr: stderr.String(), Err: err}
		}
		return nil, fmt.Errorf("%s: %w", p.Tool, err)
	}
	return &ProbeResult{RawJSON: stdout.String()}, nil
}
