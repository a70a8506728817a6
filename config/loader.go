package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigFile is looked up in the working directory when no path is given
	DefaultConfigFile = "gameloop.toml"
)

// FormatFor derives the encoding from a file extension, TOML unless .yaml/.yml
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// LoadFile reads and parses a config file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadAuto loads config with priority: customPath > DefaultConfigFile > embedded defaults
// Returns the path actually loaded, empty for embedded defaults
func LoadAuto(customPath string) (*Config, string, error) {
	// Priority 1: Custom path from CLI
	if customPath != "" {
		if !fileExists(customPath) {
			return nil, "", fmt.Errorf("config file not found: %s", customPath)
		}
		cfg, err := LoadFile(customPath)
		return cfg, customPath, err
	}

	// Priority 2: Default external config
	if fileExists(DefaultConfigFile) {
		cfg, err := LoadFile(DefaultConfigFile)
		return cfg, DefaultConfigFile, err
	}

	// Priority 3: Embedded fallback
	return Default(), "", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
