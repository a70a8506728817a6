// Package config loads engine, logging and audio settings from TOML or YAML files
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed default.toml
var defaultConfig string

// Format identifies a config file encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Config is the file-level configuration
type Config struct {
	Engine EngineConfig `toml:"engine" yaml:"engine"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Audio  AudioConfig  `toml:"audio" yaml:"audio"`
}

// EngineConfig holds loop timing settings
// MaxUpdateTime is a duration string ("100ms") so both encoders read it the same way
type EngineConfig struct {
	TickRate      float64 `toml:"tick_rate" yaml:"tick_rate"`
	MaxUpdateTime string  `toml:"max_update_time" yaml:"max_update_time"`
	MaxFPS        float64 `toml:"max_fps" yaml:"max_fps"`
}

type LogConfig struct {
	Verbosity   int    `toml:"verbosity" yaml:"verbosity"`
	Dir         string `toml:"dir" yaml:"dir"`
	Development bool   `toml:"development" yaml:"development"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	SampleRate int     `toml:"sample_rate" yaml:"sample_rate"`
	Volume     float64 `toml:"volume" yaml:"volume"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	if _, err := toml.Decode(defaultConfig, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// MaxUpdateDuration parses Engine.MaxUpdateTime, empty means zero (engine default)
func (c *Config) MaxUpdateDuration() (time.Duration, error) {
	if c.Engine.MaxUpdateTime == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Engine.MaxUpdateTime)
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var err error

	if c.Engine.TickRate < 0 || math.IsNaN(c.Engine.TickRate) || math.IsInf(c.Engine.TickRate, 0) {
		err = multierr.Append(err, fmt.Errorf("engine.tick_rate must be a finite value >= 0, got %v", c.Engine.TickRate))
	}
	if c.Engine.MaxFPS < 0 || math.IsNaN(c.Engine.MaxFPS) || math.IsInf(c.Engine.MaxFPS, 0) {
		err = multierr.Append(err, fmt.Errorf("engine.max_fps must be a finite value >= 0, got %v", c.Engine.MaxFPS))
	}
	if d, perr := c.MaxUpdateDuration(); perr != nil {
		err = multierr.Append(err, fmt.Errorf("engine.max_update_time: %w", perr))
	} else if d < 0 {
		err = multierr.Append(err, fmt.Errorf("engine.max_update_time must be >= 0, got %v", d))
	}
	if c.Log.Verbosity < 0 {
		err = multierr.Append(err, fmt.Errorf("log.verbosity must be >= 0, got %d", c.Log.Verbosity))
	}
	if c.Audio.SampleRate < 0 {
		err = multierr.Append(err, fmt.Errorf("audio.sample_rate must be >= 0, got %d", c.Audio.SampleRate))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		err = multierr.Append(err, fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume))
	}

	return err
}

// Parse decodes data on top of the defaults and validates the result
// Keys absent from data keep their default values
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("parse toml: unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// Empty documents decode to io.EOF, which leaves the defaults in place
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
