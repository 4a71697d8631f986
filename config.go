package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration of video-tool
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	DevServer DevServerConfig `yaml:"dev_server"`
	Binaries  BinariesConfig  `yaml:"binaries"`
}

// DevServerConfig configures the development asset server
type DevServerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Root     string `yaml:"root"`
	Index    string `yaml:"index"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// BinariesConfig configures where bundled tools are looked up
type BinariesConfig struct {
	Dir       string `yaml:"dir"`
	ProbeTool string `yaml:"probe_tool"`
}

// Defaults returns the configuration used when no config file is given
func Defaults() *Config {
	return &Config{
		LogLevel: "info",
		DevServer: DevServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:1420",
			Root:    "../src",
			Index:   "index.html",
		},
		Binaries: BinariesConfig{
			Dir:       "binaries",
			ProbeTool: "ffprobe",
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values the host cannot work with
func (cfg *Config) Validate() error {
	var errs []error
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := validateAddr(cfg.DevServer.Addr); err != nil {
		errs = append(errs, fmt.Errorf("dev_server.addr: %w", err))
	}
	if len(cfg.DevServer.Root) == 0 {
		errs = append(errs, fmt.Errorf("dev_server.root is empty"))
	}
	if len(cfg.DevServer.Index) == 0 {
		errs = append(errs, fmt.Errorf("dev_server.index is empty"))
	}
	if len(cfg.Binaries.Dir) == 0 {
		errs = append(errs, fmt.Errorf("binaries.dir is empty"))
	}
	if len(cfg.Binaries.ProbeTool) == 0 {
		errs = append(errs, fmt.Errorf("binaries.probe_tool is empty"))
	}
	return errors.Join(errs...)
}

func validateAddr(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port: %s", portStr)
	}
	// port 0 lets the OS pick one
	if port < 0 || port > 65535 {
		return fmt.Errorf("port out of range: %d", port)
	}
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
