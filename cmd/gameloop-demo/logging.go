package main

import (
	"os"

	"github.com/go-logr/logr"

	"github.com/lixenwraith/gameloop/config"
	"github.com/lixenwraith/gameloop/logging"
)

const (
	logFileName = "gameloop.log"
	maxLogSize  = logging.DefaultMaxLogSize
)

// setupLogging routes logs to a rotating file; the terminal owns stdout and stderr
// Logging is discarded unless debug is set or the config names a directory
func setupLogging(cfg config.LogConfig, debug bool) (logr.Logger, *os.File, error) {
	if !debug && cfg.Dir == "" {
		return logging.Discard(), nil, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "logs"
	}

	f, err := logging.OpenLogFile(dir, logFileName, maxLogSize)
	if err != nil {
		return logging.Discard(), nil, err
	}

	logger := logging.NewLogger(logging.Options{
		Writer:      f,
		Verbosity:   cfg.Verbosity,
		Development: cfg.Development,
	})
	return logger, f, nil
}
