package main

import (
	"fmt"
	"math"
	"net"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/gameloop/config"
	"github.com/lixenwraith/gameloop/logging"
)

// Options contains the command-line configuration for the demo
type Options struct {
	//
	// Configuration file.
	//
	ConfigPath  string // Config file, falls back to ./gameloop.toml then built-in defaults.
	WatchConfig bool   // Reloads the config file on change.
	//
	// Loop timing, overrides the config file when set.
	//
	TickRate float64 // Fixed ticks per second.
	MaxFPS   float64 // Frame cap, 0 for uncapped.
	//
	// Diagnostics.
	//
	LogVerbosity int    // Number for the log level verbosity.
	LogDir       string // Directory for the log file.
	Debug        bool   // Enables file logging with the development encoder.
	MetricsAddr  string // Address serving prometheus metrics, empty disables.
	NoAudio      bool   // Disables sound.

	// internal
	fs *pflag.FlagSet // FlagSet used in AddFlags() and consulted in Complete()
}

// NewOptions returns a new Options struct initialized with default values
func NewOptions() *Options {
	return &Options{
		TickRate:     120,
		MaxFPS:       60,
		LogVerbosity: logging.DEFAULT,
		LogDir:       "logs",
	}
}

// AddFlags binds the Options fields to command-line flags on the given FlagSet
func (opts *Options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	opts.fs = fs

	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath,
		"Path to a TOML or YAML config file.")
	fs.BoolVar(&opts.WatchConfig, "watch-config", opts.WatchConfig,
		"Reload the config file when it changes.")
	fs.Float64Var(&opts.TickRate, "tick-rate", opts.TickRate,
		"Fixed simulation ticks per second.")
	fs.Float64Var(&opts.MaxFPS, "max-fps", opts.MaxFPS,
		"Frame rate cap, 0 renders uncapped.")
	fs.IntVarP(&opts.LogVerbosity, "v", "v", opts.LogVerbosity,
		"Number for the log level verbosity.")
	fs.StringVar(&opts.LogDir, "log-dir", opts.LogDir,
		"Directory for the log file.")
	fs.BoolVar(&opts.Debug, "debug", opts.Debug,
		"Enable file logging with the development encoder.")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", opts.MetricsAddr,
		"Address to serve prometheus metrics on, e.g. :9090. Empty disables.")
	fs.BoolVar(&opts.NoAudio, "no-audio", opts.NoAudio,
		"Disable sound.")
}

// Complete merges parsed flags with file configuration
// Flags given explicitly on the command line win over the file
func (opts *Options) Complete(cfg *config.Config) error {
	if opts.changed("tick-rate") {
		cfg.Engine.TickRate = opts.TickRate
	}
	if opts.changed("max-fps") {
		cfg.Engine.MaxFPS = opts.MaxFPS
	}
	if opts.changed("v") {
		cfg.Log.Verbosity = opts.LogVerbosity
	}
	if opts.changed("log-dir") {
		cfg.Log.Dir = opts.LogDir
	}
	if opts.Debug {
		cfg.Log.Development = true
	}
	if opts.NoAudio {
		cfg.Audio.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration after flags: %w", err)
	}
	return nil
}

func (opts *Options) changed(name string) bool {
	if opts.fs == nil {
		return false
	}
	f := opts.fs.Lookup(name)
	return f != nil && f.Changed
}

// Validate checks the Options for invalid or conflicting values
func (opts *Options) Validate() error {
	for _, fc := range []struct {
		name  string
		value float64
	}{
		{"tick-rate", opts.TickRate},
		{"max-fps", opts.MaxFPS},
	} {
		if fc.value < 0 || math.IsNaN(fc.value) || math.IsInf(fc.value, 0) {
			return fmt.Errorf("invalid value %v for flag %q: must be a finite value >= 0", fc.value, fc.name)
		}
	}

	if opts.LogVerbosity < 0 {
		return fmt.Errorf("invalid value %d for flag %q: must be >= 0", opts.LogVerbosity, "v")
	}

	if opts.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(opts.MetricsAddr); err != nil {
			return fmt.Errorf("invalid value %q for flag %q: %w", opts.MetricsAddr, "metrics-addr", err)
		}
	}

	if opts.WatchConfig && opts.ConfigPath == "" {
		return fmt.Errorf("flag %q requires %q", "watch-config", "config")
	}

	return nil
}
