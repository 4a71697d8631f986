package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (opts *cliOptions) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check where bundled binaries resolve from",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if !runDoctor(cmd.OutOrStdout(), host) {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
}

// runDoctor prints the lookup state of the probe tool and reports whether it resolves
func runDoctor(w io.Writer, host *Host) bool {
	prober := host.Prober()
	name := ToolFilename(prober.Tool)

	if wd, err := os.Getwd(); err == nil {
		fmt.Fprintf(w, "working dir:  %s\n", wd)
	}
	for _, provider := range prober.Resolver.Providers {
		dir, err := provider.Dir()
		if err != nil {
			fmt.Fprintf(w, "%-13s %v\n", provider.Name()+":", err)
			continue
		}
		status := "missing"
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			status = "found"
		}
		fmt.Fprintf(w, "%-13s %s [%s]\n", provider.Name()+":", dir, status)
	}

	path, err := prober.Resolver.Resolve(name)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", prober.Tool, err)
		return false
	}
	fmt.Fprintf(w, "%s: %s\n", prober.Tool, path)
	fmt.Fprintf(w, "commands: %v\n", host.Commands())
	return true
}
