package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/event"
	"github.com/lixenwraith/gameloop/logging"
)

// debounceDelay waits for editor write bursts to settle before reloading
var debounceDelay = 250 * time.Millisecond

// Watch reloads path whenever it is written or recreated and sends each valid result
// as an EventConfigReload carrying *Config
// Invalid reloads are logged and dropped; the watcher stops when ctx is done
func Watch(ctx context.Context, path string, sender event.Sender[event.Event], logger logr.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	// Watch the directory: editors often replace the file instead of writing in place
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %q: %w", path, err)
	}

	logger = logger.WithName("config-watcher").WithValues("path", abs)
	traceLogger := logger.V(logging.TRACE)

	core.Go(func() {
		defer w.Close()

		var settle <-chan time.Time

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				traceLogger.Info("Config changed", "event", ev.String())

				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				settle = time.After(debounceDelay)

			case <-settle:
				settle = nil
				cfg, err := LoadFile(abs)
				if err != nil {
					logger.Error(err, "Config reload rejected")
					continue
				}
				sender.Send(event.Event{Type: event.EventConfigReload, Payload: cfg})
				logger.V(logging.VERBOSE).Info("Config reloaded")

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error(err, "Config watcher failed")

			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}
