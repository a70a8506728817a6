package logging

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels, use as logger.V(logging.DEBUG)
const (
	DEFAULT = 2
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// Options configures NewLogger
type Options struct {
	// Writer receives log output, stderr when nil
	Writer io.Writer
	// Verbosity enables V(n) for n <= Verbosity
	Verbosity int
	// Development selects the console encoder and caller annotations
	Development bool
}

// NewLogger creates a zap-backed logr handle
// The handle is passed explicitly; no global logger is installed
func NewLogger(opts Options) logr.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.Development {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	// logr V(n) maps to zap level -n
	level := zap.NewAtomicLevelAt(zapcore.Level(-1 * opts.Verbosity))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)

	zapOpts := []zap.Option{}
	if opts.Development {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	return zapr.NewLogger(zap.New(core, zapOpts...))
}

// Discard returns a logger that drops everything
func Discard() logr.Logger {
	return logr.Discard()
}
