// Package logtest provides loggers for tests, kept apart from logging so binaries do not link testing
package logtest

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"

	"github.com/lixenwraith/gameloop/logging"
)

// New returns a logger writing through t.Log at TRACE verbosity
func New(t testing.TB) logr.Logger {
	return testr.NewWithInterface(t, testr.Options{Verbosity: logging.TRACE})
}
