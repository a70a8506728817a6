package main

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/gameloop/config"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"ConfigPath", opts.ConfigPath, ""},
		{"WatchConfig", opts.WatchConfig, false},
		{"TickRate", opts.TickRate, 120.0},
		{"MaxFPS", opts.MaxFPS, 60.0},
		{"LogVerbosity", opts.LogVerbosity, 2}, // logging.DEFAULT
		{"LogDir", opts.LogDir, "logs"},
		{"Debug", opts.Debug, false},
		{"MetricsAddr", opts.MetricsAddr, ""},
		{"NoAudio", opts.NoAudio, false},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("NewOptions().%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestAddFlagsOverridesDefaults(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)

	args := []string{
		"--config", "game.yaml",
		"--watch-config",
		"--tick-rate", "60",
		"--max-fps", "0",
		"--log-dir", "/tmp/gl",
		"--debug",
		"--metrics-addr", ":9090",
		"--no-audio",
		"-v", "4",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"ConfigPath", opts.ConfigPath, "game.yaml"},
		{"WatchConfig", opts.WatchConfig, true},
		{"TickRate", opts.TickRate, 60.0},
		{"MaxFPS", opts.MaxFPS, 0.0},
		{"LogDir", opts.LogDir, "/tmp/gl"},
		{"Debug", opts.Debug, true},
		{"MetricsAddr", opts.MetricsAddr, ":9090"},
		{"NoAudio", opts.NoAudio, true},
		{"LogVerbosity", opts.LogVerbosity, 4},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("After parse, opts.%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		assert func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "unset flags keep file values",
			args: nil,
			assert: func(t *testing.T, cfg *config.Config) {
				if cfg.Engine.TickRate != 30 {
					t.Errorf("TickRate = %v, want file value 30", cfg.Engine.TickRate)
				}
				if cfg.Engine.MaxFPS != 144 {
					t.Errorf("MaxFPS = %v, want file value 144", cfg.Engine.MaxFPS)
				}
				if !cfg.Audio.Enabled {
					t.Error("audio should stay enabled")
				}
			},
		},
		{
			name: "explicit flags win",
			args: []string{"--tick-rate", "90", "--max-fps", "0", "--no-audio", "--debug", "-v", "5"},
			assert: func(t *testing.T, cfg *config.Config) {
				if cfg.Engine.TickRate != 90 {
					t.Errorf("TickRate = %v, want 90", cfg.Engine.TickRate)
				}
				if cfg.Engine.MaxFPS != 0 {
					t.Errorf("MaxFPS = %v, want 0", cfg.Engine.MaxFPS)
				}
				if cfg.Audio.Enabled {
					t.Error("--no-audio should disable audio")
				}
				if !cfg.Log.Development || cfg.Log.Verbosity != 5 {
					t.Errorf("log = %+v, want development at verbosity 5", cfg.Log)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			opts.AddFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Failed to parse flags: %v", err)
			}

			cfg := config.Default()
			cfg.Engine.TickRate = 30
			cfg.Engine.MaxFPS = 144

			if err := opts.Complete(cfg); err != nil {
				t.Fatalf("Complete: %v", err)
			}
			tt.assert(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Options)
		expectError bool
	}{
		{
			name:        "defaults are valid",
			mutate:      func(_ *Options) {},
			expectError: false,
		},
		{
			name:        "negative tick rate",
			mutate:      func(o *Options) { o.TickRate = -1 },
			expectError: true,
		},
		{
			name:        "negative max fps",
			mutate:      func(o *Options) { o.MaxFPS = -30 },
			expectError: true,
		},
		{
			name:        "zero max fps is uncapped",
			mutate:      func(o *Options) { o.MaxFPS = 0 },
			expectError: false,
		},
		{
			name:        "negative verbosity",
			mutate:      func(o *Options) { o.LogVerbosity = -1 },
			expectError: true,
		},
		{
			name:        "metrics addr without port",
			mutate:      func(o *Options) { o.MetricsAddr = "localhost" },
			expectError: true,
		},
		{
			name:        "metrics addr with port",
			mutate:      func(o *Options) { o.MetricsAddr = "127.0.0.1:9090" },
			expectError: false,
		},
		{
			name:        "watch without config",
			mutate:      func(o *Options) { o.WatchConfig = true },
			expectError: true,
		},
		{
			name: "watch with config",
			mutate: func(o *Options) {
				o.WatchConfig = true
				o.ConfigPath = "gameloop.toml"
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.mutate(opts)
			err := opts.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
