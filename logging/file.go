package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxLogSize is the size above which an existing log file is rotated on open
const DefaultMaxLogSize = 10 * 1024 * 1024

// OpenLogFile opens dir/name for append, creating dir as needed
// An existing file larger than maxSize is first renamed to name-<timestamp>.log
// Terminal frontends own stdout, so file output keeps logs off the screen
func OpenLogFile(dir, name string, maxSize int64) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if maxSize <= 0 {
		maxSize = DefaultMaxLogSize
	}

	if info, err := os.Stat(path); err == nil && info.Size() > maxSize {
		if err := os.Rename(path, rotatedName(path, time.Now())); err != nil {
			return nil, fmt.Errorf("rotate log file: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func rotatedName(path string, now time.Time) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return fmt.Sprintf("%s-%s.log", base, now.Format("20060102-150405"))
}
