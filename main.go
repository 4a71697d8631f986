package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

// cliOptions holds the persistent flags of the command tree
type cliOptions struct {
	configPath string
	logLevel   string
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "video-tool",
		Short:         "Native backend of the video inspection tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          opts.runHost,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "overrides the configured log level (debug|info|warn|error)")

	root.AddCommand(opts.runCmd())
	root.AddCommand(opts.serveCmd())
	root.AddCommand(opts.probeCmd())
	root.AddCommand(opts.doctorCmd())
	root.AddCommand(versionCmd())
	return root
}

func (opts *cliOptions) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the host (and the dev server in debug builds)",
		RunE:  opts.runHost,
	}
}

func (opts *cliOptions) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dev asset server only",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if _, err := host.StartDevServer(); err != nil {
				return err
			}
			return waitForSignal(cmd.Context(), host)
		},
	}
}

func (opts *cliOptions) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <path>",
		Short: "Probe a media file and print the raw ffprobe JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			result, err := host.Invoke(cmd.Context(), "probe_video", Args{"path": args[0]})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "video-tool", version)
		},
	}
}

func (opts *cliOptions) runHost(cmd *cobra.Command, args []string) error {
	host, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	host.logger.Info("video-tool start", "version", version, "debug", debugBuild)
	if wd, err := os.Getwd(); err == nil {
		host.logger.Debug("startup", "current_dir", wd)
	}

	if _, err := startHost(host); err != nil {
		return err
	}
	return waitForSignal(cmd.Context(), host)
}

// startHost starts the dev server in debug builds when the config enables it
// and reports whether it did
func startHost(host *Host) (bool, error) {
	if !debugBuild || !host.cfg.DevServer.Enabled {
		return false, nil
	}
	if _, err := host.StartDevServer(); err != nil {
		return false, err
	}
	return true, nil
}

// setup loads the config and creates the logger and the host
func (opts *cliOptions) setup(cmd *cobra.Command) (*Host, error) {
	logger := newLogger(cmd.ErrOrStderr(), slog.LevelInfo)

	cfg := Defaults()
	if len(opts.configPath) > 0 {
		loaded, err := LoadConfig(opts.configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("config not found, using defaults", "path", opts.configPath)
		case err != nil:
			return nil, err
		default:
			cfg = loaded
		}
	}
	if len(opts.logLevel) > 0 {
		cfg.LogLevel = opts.logLevel
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return NewHost(cfg, newLogger(cmd.ErrOrStderr(), level)), nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func waitForSignal(ctx context.Context, host *Host) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	host.logger.Info("video-tool stop")
	return nil
}
