package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_VerbosityGate(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Writer: &buf, Verbosity: VERBOSE})

	logger.Info("visible")
	logger.V(VERBOSE).Info("also visible")
	logger.V(DEBUG).Info("hidden")

	out := buf.String()
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "also visible")
	assert.NotContains(t, out, "hidden")
}

func TestNewLogger_JSONStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Writer: &buf, Verbosity: DEFAULT})

	logger.Info("tick budget exhausted", "ticks", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "tick budget exhausted", rec["msg"])
	assert.EqualValues(t, 3, rec["ticks"])
}

func TestOpenLogFile_CreatesDirAndAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := OpenLogFile(dir, "gameloop.log", 0)
	require.NoError(t, err)
	_, err = f.WriteString("first\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenLogFile(dir, "gameloop.log", 0)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(dir, "gameloop.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestOpenLogFile_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gameloop.log")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	f, err := OpenLogFile(dir, "gameloop.log", 1024)
	require.NoError(t, err)
	defer f.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	rotatedFound := false
	for _, e := range entries {
		if e.Name() != "gameloop.log" && filepath.Ext(e.Name()) == ".log" {
			rotatedFound = true
		}
	}
	assert.True(t, rotatedFound, "expected rotated log file")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
